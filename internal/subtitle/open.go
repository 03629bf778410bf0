package subtitle

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultParsers returns every parser in the default detection order.
// Formats with a reliable signature come before the line based ones.
func DefaultParsers(predictor EndTimePredictor) []Parser {
	return []Parser{
		SAMIParser{},
		SubRipParser{},
		WebVTTParser{},
		ASSParser{},
		MicroDVDParser{},
		TMPlayerParser{Predictor: predictor},
	}
}

// ParsersByName builds a detection order from format names such as
// "sami" or "srt".
func ParsersByName(names []string, predictor EndTimePredictor) ([]Parser, error) {
	all := DefaultParsers(predictor)
	parsers := make([]Parser, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		var found Parser
		for _, p := range all {
			if string(p.Format()) == name {
				found = p
				break
			}
		}
		if found == nil {
			return nil, fmt.Errorf("unsupported subtitle format: %s", name)
		}
		parsers = append(parsers, found)
	}
	return parsers, nil
}

// Loader reads subtitle files and hands them to the first parser that
// claims them.
type Loader struct {
	Fs               afero.Fs
	Parsers          []Parser
	Encoding         string
	FallbackEncoding string
	Logger           *zap.SugaredLogger
}

func NewLoader(fs afero.Fs) *Loader {
	return &Loader{
		Fs:      fs,
		Parsers: DefaultParsers(DefaultPredictor()),
		Logger:  zap.NewNop().Sugar(),
	}
}

// Detect returns the first parser whose detection accepts src.
func (l *Loader) Detect(src *Source) (Parser, bool) {
	for _, p := range l.Parsers {
		if p.Detect(src) {
			l.logger().Debugw("Subtitle format detected",
				"path", src.Path,
				"format", p.Format(),
			)
			return p, true
		}
	}
	return nil, false
}

// Load parses data that was read from path.
func (l *Loader) Load(path string, data []byte) (*Subtitle, error) {
	text, err := Decode(data, l.Encoding, l.FallbackEncoding)
	if err != nil {
		return nil, err
	}
	src := NewSource(path, text)
	p, ok := l.Detect(src)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrUnrecognized)
	}
	sub := p.Parse(src)
	l.logger().Debugw("Subtitle parsed",
		"path", path,
		"format", sub.Format,
		"components", len(sub.Components),
	)
	return sub, nil
}

func (l *Loader) Open(path string) (*Subtitle, error) {
	fs := l.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open subtitle file: %w", err)
	}
	return l.Load(path, data)
}

func (l *Loader) logger() *zap.SugaredLogger {
	if l.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return l.Logger
}

// Open loads path from the OS filesystem with the default parsers.
func Open(path string) (*Subtitle, error) {
	return NewLoader(afero.NewOsFs()).Open(path)
}
