package subtitle

import (
	"regexp"
	"strings"
)

var (
	srtIndexRegex = regexp.MustCompile(`^\s*(\d+)\s*$`)
	srtTimeRegex  = regexp.MustCompile(
		`^\s*(\d\d):(\d\d):(\d\d),(\d\d\d)\s*-->\s*(\d\d):(\d\d):(\d\d),(\d\d\d)`,
	)
)

// SubRipParser reads SRT files. A block without its index or timing line
// ends the parse.
type SubRipParser struct{}

func (SubRipParser) Format() Format {
	return FormatSRT
}

func (SubRipParser) Detect(src *Source) bool {
	if src.Suffix() == "srt" {
		return true
	}
	pos := src.Pos()
	defer src.SeekTo(pos)

	index, ok := src.readNonBlank()
	if !ok || !srtIndexRegex.MatchString(index) {
		return false
	}
	timing, _ := src.ReadLine()
	return srtTimeRegex.MatchString(timing)
}

func (SubRipParser) Parse(src *Source) *Subtitle {
	src.SeekTo(0)
	sub := newSubtitle(src, FormatSRT)
	comp := sub.Append("", TimeModeTime)

	for {
		index, ok := src.readNonBlank()
		if !ok || !srtIndexRegex.MatchString(index) {
			break
		}
		timing, ok := src.ReadLine()
		if !ok {
			break
		}
		m := srtTimeRegex.FindStringSubmatch(timing)
		if m == nil {
			break
		}
		start, ok1 := capturesToMSec(m[1], m[2], m[3], m[4])
		end, ok2 := capturesToMSec(m[5], m[6], m[7], m[8])
		if !ok1 || !ok2 {
			break
		}

		var lines []string
		for {
			line, ok := src.ReadLine()
			if !ok || strings.TrimSpace(line) == "" {
				break
			}
			lines = append(lines, line)
		}
		appendCaption(comp, "<p>"+strings.Join(lines, "<br>")+"</p>", start, end)
	}
	return sub
}
