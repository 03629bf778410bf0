package subtitle

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// interface for writing subtitles to files
type Writer interface {
	Write(sub *Subtitle, path string) error
}

type fileOutput struct {
	Fs afero.Fs
}

func (o fileOutput) writeFile(path string, data string) error {
	fs := o.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return afero.WriteFile(fs, path, []byte(data), 0644)
}

// SubRip format
type SRTWriter struct {
	fileOutput
	Track TrackOptions
}

// WebVTT format
type VTTWriter struct {
	fileOutput
	Track TrackOptions
}

// Advanced SubStation Alpha format
type ASSWriter struct {
	fileOutput
	Track    TrackOptions
	Title    string
	FontName string
	FontSize int
}

// SAMI format, one class per component
type SAMIWriter struct {
	fileOutput
	FPS      float64
	Title    string
	FontName string
	FontSize int
}

func NewWriter(format Format, fs afero.Fs, track TrackOptions) (Writer, error) {
	out := fileOutput{Fs: fs}
	switch format {
	case FormatSRT:
		return &SRTWriter{fileOutput: out, Track: track}, nil
	case FormatVTT:
		return &VTTWriter{fileOutput: out, Track: track}, nil
	case FormatASS:
		return &ASSWriter{
			fileOutput: out,
			Track:      track,
			Title:      "Lekh Converted Subtitles",
			FontName:   "Arial",
			FontSize:   20,
		}, nil
	case FormatSAMI:
		return &SAMIWriter{
			fileOutput: out,
			FPS:        track.FPS,
			Title:      "Lekh Converted Subtitles",
			FontName:   "Arial",
			FontSize:   20,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// writes the subtitle to an SRT file
func (w *SRTWriter) Write(sub *Subtitle, path string) error {
	entries, err := sub.Entries(w.Track)
	if err != nil {
		return err
	}

	var sb strings.Builder
	for i, entry := range entries {
		// index (1-based)
		sb.WriteString(fmt.Sprintf("%d\n", i+1))

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatSRTTime(entry.StartTime),
			formatSRTTime(entry.EndTime)))

		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}

	return w.writeFile(path, sb.String())
}

// writes the subtitle to a VTT file
func (w *VTTWriter) Write(sub *Subtitle, path string) error {
	entries, err := sub.Entries(w.Track)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")

	for i, entry := range entries {
		// optional cue identifier
		sb.WriteString(fmt.Sprintf("%d\n", i+1))

		// timestamps: 00:00:00.000 --> 00:00:00.000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatVTTTime(entry.StartTime),
			formatVTTTime(entry.EndTime)))

		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}

	return w.writeFile(path, sb.String())
}

// writes the subtitle to an ASS file
func (w *ASSWriter) Write(sub *Subtitle, path string) error {
	entries, err := sub.Entries(w.Track)
	if err != nil {
		return err
	}

	var sb strings.Builder

	// script info section
	sb.WriteString("[Script Info]\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", w.Title))
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString("Collisions: Normal\n")
	sb.WriteString("PlayDepth: 0\n\n")

	// v4+ styles section
	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	sb.WriteString(fmt.Sprintf("Style: Default,%s,%d,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1\n\n",
		w.FontName, w.FontSize))

	// events section
	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, entry := range entries {
		sb.WriteString(fmt.Sprintf("Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			formatASSTime(entry.StartTime),
			formatASSTime(entry.EndTime),
			escapeASSText(entry.Text)))
	}

	return w.writeFile(path, sb.String())
}

// writes every component to a SAMI file
func (w *SAMIWriter) Write(sub *Subtitle, path string) error {
	comps := make([]*Component, 0, len(sub.Components))
	classes := make([]string, 0, len(sub.Components))
	var keys []int
	for i, c := range sub.Components {
		comp, err := c.ToTime(w.FPS)
		if err != nil {
			return err
		}
		comps = append(comps, comp)
		classes = append(classes, samiClass(comp.Language, i))
		keys = append(keys, comp.Keys()...)
	}
	slices.Sort(keys)
	keys = slices.Compact(keys)

	var sb strings.Builder
	sb.WriteString("<SAMI>\n<HEAD>\n")
	sb.WriteString(fmt.Sprintf("<TITLE>%s</TITLE>\n", EncodeEntity(w.Title)))
	sb.WriteString("<STYLE TYPE=\"text/css\">\n<!--\n")
	sb.WriteString(fmt.Sprintf(
		"P { margin-left:8pt; margin-right:8pt; margin-bottom:2pt; margin-top:2pt; text-align:center; font-size:%dpt; font-family:%s; }\n",
		w.FontSize, w.FontName))
	for i, class := range classes {
		name := comps[i].Language
		if name == "" {
			name = class
		}
		sb.WriteString(fmt.Sprintf(".%s { Name:%s; SAMIType:CC; }\n", class, name))
	}
	sb.WriteString("-->\n</STYLE>\n</HEAD>\n<BODY>\n")

	for _, key := range keys {
		var body strings.Builder
		for i, comp := range comps {
			paragraphs, ok := comp.At(key)
			if !ok {
				continue
			}
			if len(paragraphs) == 0 {
				body.WriteString(fmt.Sprintf("<P Class=%s>&nbsp;\n", classes[i]))
				continue
			}
			for _, paragraph := range paragraphs {
				inner := strings.TrimSuffix(strings.TrimPrefix(paragraph, "<p>"), "</p>")
				body.WriteString(fmt.Sprintf("<P Class=%s>%s\n", classes[i], inner))
			}
		}
		sb.WriteString(fmt.Sprintf("<SYNC Start=%d>", key))
		sb.WriteString(body.String())
	}

	sb.WriteString("</BODY>\n</SAMI>\n")
	return w.writeFile(path, sb.String())
}

// samiClass turns a component label into a CSS class name.
func samiClass(language string, index int) string {
	var sb strings.Builder
	for _, r := range language {
		if r == '-' || r == '_' || ('a' <= r && r <= 'z') ||
			('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return fmt.Sprintf("CC%d", index+1)
	}
	return sb.String()
}

func formatSRTTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

func formatVTTTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

func formatASSTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	centis := (int(d.Milliseconds()) % 1000) / 10

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}

func escapeASSText(text string) string {
	return strings.ReplaceAll(text, "\n", "\\N")
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		return FormatSRT
	case ".vtt":
		return FormatVTT
	case ".ass", ".ssa":
		return FormatASS
	case ".smi", ".sami":
		return FormatSAMI
	default:
		return FormatSRT
	}
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatSRT:
		return ".srt"
	case FormatVTT:
		return ".vtt"
	case FormatASS:
		return ".ass"
	case FormatSAMI:
		return ".smi"
	case FormatMicroDVD:
		return ".sub"
	case FormatTMPlayer:
		return ".txt"
	default:
		return ".srt"
	}
}
