package subtitle

import (
	"regexp"
	"strings"
)

// interface for subtitle format parsers
//
// Detect must leave the source position where it found it. Parse reads the
// whole source and never fails: a malformed entry ends the parse and the
// captions built so far are returned.
type Parser interface {
	Format() Format
	Detect(src *Source) bool
	Parse(src *Source) *Subtitle
}

// shared base for formats with one caption per line
type lineParser struct {
	rx *regexp.Regexp
}

func (p lineParser) match(line string) []string {
	return p.rx.FindStringSubmatch(strings.TrimSpace(line))
}

// detect matches the first non-blank line against the format expression.
func (p lineParser) detect(src *Source) bool {
	pos := src.Pos()
	defer src.SeekTo(pos)

	if src.SkipSeparators() {
		return false
	}
	line, _ := src.ReadLine()
	return p.match(line) != nil
}

func newSubtitle(src *Source, format Format) *Subtitle {
	return &Subtitle{Path: src.Path, Format: format}
}

// appendCaption stores caption at start and an end marker at end.
func appendCaption(comp *Component, caption string, start, end int) {
	comp.Append(start, caption)
	if end > start {
		comp.Insert(end)
	}
}
