package subtitle

import (
	"regexp"
	"strings"
)

var vttTimeRegex = regexp.MustCompile(
	`^\s*(?:(\d+):)?(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(?:(\d+):)?(\d{2}):(\d{2})\.(\d{3})`,
)

// WebVTTParser reads WebVTT files. Cue settings after the timing are
// ignored and cue markup is reduced to the stored HTML subset.
type WebVTTParser struct{}

func (WebVTTParser) Format() Format {
	return FormatVTT
}

func (WebVTTParser) Detect(src *Source) bool {
	if src.Suffix() == "vtt" {
		return true
	}
	pos := src.Pos()
	defer src.SeekTo(pos)
	if src.SkipSeparators() {
		return false
	}
	return strings.HasPrefix(src.Remaining(), "WEBVTT")
}

func (WebVTTParser) Parse(src *Source) *Subtitle {
	src.SeekTo(0)
	sub := newSubtitle(src, FormatVTT)
	comp := sub.Append("", TimeModeTime)

	// header block
	if first, ok := src.readNonBlank(); ok && strings.HasPrefix(strings.TrimSpace(first), "WEBVTT") {
		skipBlock(src)
	} else {
		src.SeekTo(0)
	}

	for {
		line, ok := src.readNonBlank()
		if !ok {
			break
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "NOTE") ||
			strings.HasPrefix(trimmed, "STYLE") ||
			strings.HasPrefix(trimmed, "REGION") {
			skipBlock(src)
			continue
		}

		m := vttTimeRegex.FindStringSubmatch(line)
		if m == nil {
			// cue identifier
			line, ok = src.ReadLine()
			if !ok {
				break
			}
			if m = vttTimeRegex.FindStringSubmatch(line); m == nil {
				break
			}
		}
		start, ok1 := capturesToMSec(m[1], m[2], m[3], m[4])
		end, ok2 := capturesToMSec(m[5], m[6], m[7], m[8])
		if !ok1 || !ok2 {
			break
		}

		var parts []string
		for {
			text, ok := src.ReadLine()
			if !ok || strings.TrimSpace(text) == "" {
				break
			}
			parts = append(parts, Sanitize(text))
		}
		appendCaption(comp, "<p>"+strings.Join(parts, "<br>")+"</p>", start, end)
	}
	return sub
}

// skipBlock consumes lines up to and including the next blank line.
func skipBlock(src *Source) {
	for {
		line, ok := src.ReadLine()
		if !ok || strings.TrimSpace(line) == "" {
			return
		}
	}
}
