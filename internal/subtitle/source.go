package subtitle

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Source is the decoded text of one subtitle file plus a read position.
// Parsers share it while detecting and parsing, so it is not safe for
// concurrent use.
type Source struct {
	Path string
	text string
	pos  int
}

func NewSource(path, text string) *Source {
	return &Source{
		Path: path,
		text: strings.TrimPrefix(text, "\ufeff"),
	}
}

// lower case file extension without the dot
func (s *Source) Suffix() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(s.Path), "."))
}

func (s *Source) Text() string {
	return s.text
}

func (s *Source) Remaining() string {
	return s.text[s.pos:]
}

func (s *Source) Pos() int {
	return s.pos
}

func (s *Source) SeekTo(pos int) {
	s.pos = max(0, min(pos, len(s.text)))
}

func (s *Source) AtEnd() bool {
	return s.pos >= len(s.text)
}

// ReadLine returns the next line without its terminator. ok is false once
// the text is exhausted.
func (s *Source) ReadLine() (line string, ok bool) {
	if s.AtEnd() {
		return "", false
	}
	rest := s.text[s.pos:]
	idx := strings.IndexAny(rest, "\r\n")
	if idx < 0 {
		s.pos = len(s.text)
		return rest, true
	}
	line = rest[:idx]
	s.pos += idx + 1
	if rest[idx] == '\r' && idx+1 < len(rest) && rest[idx+1] == '\n' {
		s.pos++
	}
	return line, true
}

// SkipSeparators advances over whitespace and line breaks. It reports true
// when nothing else is left.
func (s *Source) SkipSeparators() bool {
	for s.pos < len(s.text) {
		r, size := utf8.DecodeRuneInString(s.text[s.pos:])
		if !unicode.IsSpace(r) {
			return false
		}
		s.pos += size
	}
	return true
}

// readNonBlank skips blank lines and returns the first line with content.
func (s *Source) readNonBlank() (string, bool) {
	for {
		line, ok := s.ReadLine()
		if !ok {
			return "", false
		}
		if strings.TrimSpace(line) != "" {
			return line, true
		}
	}
}
