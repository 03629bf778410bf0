package subtitle

import (
	"errors"
	"slices"
	"time"
)

// represents supported subtitle formats
type Format string

const (
	FormatSRT      Format = "srt"
	FormatVTT      Format = "vtt"
	FormatASS      Format = "ass"
	FormatSAMI     Format = "sami"
	FormatMicroDVD Format = "microdvd"
	FormatTMPlayer Format = "tmplayer"
)

var (
	// returned when no parser claims a file
	ErrUnrecognized = errors.New("subtitle could not be loaded")
	// returned when a frame keyed component is used without a frame rate
	ErrFrameMode = errors.New("component is keyed by frame number")
)

// unit of a component's keys
type TimeMode int

const (
	TimeModeTime TimeMode = iota
	TimeModeFrame
)

func (m TimeMode) String() string {
	if m == TimeModeFrame {
		return "frame"
	}
	return "time"
}

// Component is one caption track of a subtitle, usually one language.
// Keys are milliseconds in TimeModeTime and frame numbers in TimeModeFrame.
// A key may hold zero paragraphs; such an entry marks the end of the
// previous caption.
type Component struct {
	Language string
	Mode     TimeMode

	keys     []int
	captions map[int][]string
}

func NewComponent(language string, mode TimeMode) *Component {
	return &Component{
		Language: language,
		Mode:     mode,
		captions: make(map[int][]string),
	}
}

// Insert makes sure key exists without touching its paragraphs.
func (c *Component) Insert(key int) {
	if c.captions == nil {
		c.captions = make(map[int][]string)
	}
	if _, ok := c.captions[key]; ok {
		return
	}
	idx, _ := slices.BinarySearch(c.keys, key)
	c.keys = slices.Insert(c.keys, idx, key)
	c.captions[key] = nil
}

// Append adds paragraphs after whatever key already holds.
func (c *Component) Append(key int, paragraphs ...string) {
	c.Insert(key)
	c.captions[key] = append(c.captions[key], paragraphs...)
}

// returns paragraphs stored at key
func (c *Component) At(key int) ([]string, bool) {
	paragraphs, ok := c.captions[key]
	return paragraphs, ok
}

func (c *Component) Keys() []int {
	return slices.Clone(c.keys)
}

func (c *Component) Len() int {
	return len(c.keys)
}

// Cue is a caption with its display window. End is -1 for the last caption
// of a component, which has no following key.
type Cue struct {
	Start      int
	End        int
	Paragraphs []string
}

// Cues flattens the key map. Every key with paragraphs opens a cue that
// lasts until the next key.
func (c *Component) Cues() []Cue {
	var cues []Cue
	for i, key := range c.keys {
		paragraphs := c.captions[key]
		if len(paragraphs) == 0 {
			continue
		}
		end := -1
		if i+1 < len(c.keys) {
			end = c.keys[i+1]
		}
		cues = append(cues, Cue{
			Start:      key,
			End:        end,
			Paragraphs: slices.Clone(paragraphs),
		})
	}
	return cues
}

// ToTime returns a millisecond keyed copy of a frame keyed component.
func (c *Component) ToTime(fps float64) (*Component, error) {
	out := NewComponent(c.Language, TimeModeTime)
	if c.Mode == TimeModeTime {
		for _, key := range c.keys {
			out.Append(key, c.captions[key]...)
		}
		return out, nil
	}
	if !validFPS(fps) {
		return nil, ErrFrameMode
	}
	for _, key := range c.keys {
		out.Append(frameToMSec(key, fps), c.captions[key]...)
	}
	return out, nil
}

// Merge unions the keys of both components. Paragraphs of c come first.
func (c *Component) Merge(other *Component) *Component {
	out := NewComponent(c.Language, c.Mode)
	for _, key := range c.keys {
		out.Append(key, c.captions[key]...)
	}
	for _, key := range other.keys {
		out.Append(key, other.captions[key]...)
	}
	return out
}

// Subtitle is the ordered set of components produced by one parse.
type Subtitle struct {
	Path       string
	Format     Format
	Components []*Component
}

// appends a new empty component
func (s *Subtitle) Append(language string, mode TimeMode) *Component {
	comp := NewComponent(language, mode)
	s.Components = append(s.Components, comp)
	return comp
}

// Component returns the first component labelled language.
func (s *Subtitle) Component(language string) *Component {
	for _, comp := range s.Components {
		if comp.Language == language {
			return comp
		}
	}
	return nil
}

func (s *Subtitle) Clear() {
	s.Components = nil
}

// reports whether no component holds any caption
func (s *Subtitle) IsEmpty() bool {
	for _, comp := range s.Components {
		if len(comp.Cues()) > 0 {
			return false
		}
	}
	return true
}

// represents single subtitle entry
type Entry struct {
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// TrackOptions selects and converts one component for single track output.
type TrackOptions struct {
	Component int
	FPS       float64
	Predictor EndTimePredictor
}

// Entries renders one component as a numbered list of plain text entries.
func (s *Subtitle) Entries(opts TrackOptions) ([]Entry, error) {
	if opts.Component < 0 || opts.Component >= len(s.Components) {
		return nil, errors.New("component index out of range")
	}
	comp, err := s.Components[opts.Component].ToTime(opts.FPS)
	if err != nil {
		return nil, err
	}
	predictor := opts.Predictor
	if predictor == nil {
		predictor = DefaultPredictor()
	}

	var entries []Entry
	for _, cue := range comp.Cues() {
		text := PlainText(cue.Paragraphs...)
		if text == "" {
			continue
		}
		end := cue.End
		if end < 0 {
			end = predictor.PredictEnd(cue.Start, text)
		}
		entries = append(entries, Entry{
			Index:     len(entries) + 1,
			StartTime: time.Duration(cue.Start) * time.Millisecond,
			EndTime:   time.Duration(end) * time.Millisecond,
			Text:      text,
		})
	}
	return entries, nil
}
