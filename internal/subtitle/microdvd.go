package subtitle

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	microDVDRegex      = regexp.MustCompile(`^\{(\d+)\}\{(\d*)\}(.*)$`)
	microDVDAttrRegex  = regexp.MustCompile(`^\{([^}:]+):([^}]+)\}`)
	microDVDColorRegex = regexp.MustCompile(
		`\$([0-9a-fA-F]{2})([0-9a-fA-F]{2})([0-9a-fA-F]{2})`,
	)
)

// MicroDVDParser reads "{start}{end}text" files keyed by frame. When the
// first line starts at frame 0 or 1 and carries a frame rate, it is consumed
// as a header and keys are converted to milliseconds; otherwise every line
// is a caption and the component stays in frame mode.
type MicroDVDParser struct{}

func (MicroDVDParser) Format() Format {
	return FormatMicroDVD
}

func (MicroDVDParser) Detect(src *Source) bool {
	return lineParser{rx: microDVDRegex}.detect(src)
}

// parseFPS reads the frame rate field of a header line, e.g. "23.976" or
// "{25}".
func parseFPS(field string) (float64, bool) {
	field = strings.Trim(strings.TrimSpace(field), "{}")
	fps, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil || !validFPS(fps) {
		return 0, false
	}
	return fps, true
}

func (MicroDVDParser) Parse(src *Source) *Subtitle {
	lines := lineParser{rx: microDVDRegex}
	src.SeekTo(0)
	sub := newSubtitle(src, FormatMicroDVD)

	var header []string
	for header == nil {
		line, ok := src.ReadLine()
		if !ok {
			return sub
		}
		header = lines.match(line)
	}

	fps, timed := parseFPS(header[3])
	if first, err := strconv.Atoi(header[1]); err != nil || first > 1 {
		timed = false
	}
	key := func(frame int) int {
		if timed {
			return frameToMSec(frame, fps)
		}
		return frame
	}
	mode := TimeModeFrame
	if timed {
		mode = TimeModeTime
	} else {
		src.SeekTo(0)
	}
	comp := sub.Append("", mode)

	for !src.AtEnd() {
		line, _ := src.ReadLine()
		m := lines.match(line)
		if m == nil {
			continue
		}
		startFrame, err := strconv.Atoi(m[1])
		if err != nil {
			break
		}
		end := -1
		if m[2] != "" {
			endFrame, err := strconv.Atoi(m[2])
			if err != nil {
				break
			}
			end = key(endFrame)
		}
		appendCaption(comp, microDVDCaption(m[3]), key(startFrame), end)
	}
	return sub
}

// microDVDCaption turns leading {y:...} and {c:$...} groups into markup.
// Colors are written $BBGGRR, so the channels are swapped back on output.
func microDVDCaption(text string) string {
	var open, closing []string
	addTag := func(name, attr string) {
		if attr == "" {
			open = append(open, "<"+name+">")
		} else {
			open = append(open, "<"+name+" "+attr+">")
		}
		closing = append([]string{"</" + name + ">"}, closing...)
	}

	idx := 0
	for {
		am := microDVDAttrRegex.FindStringSubmatch(text[idx:])
		if am == nil {
			break
		}
		name, value := am[1], strings.ToLower(am[2])
		switch {
		case strings.EqualFold(name, "y"):
			for _, flag := range []string{"i", "u", "s", "b"} {
				if strings.Contains(value, flag) {
					addTag(flag, "")
				}
			}
		case strings.EqualFold(name, "c"):
			if cm := microDVDColorRegex.FindStringSubmatch(am[2]); cm != nil {
				addTag("font", `color="#`+cm[3]+cm[2]+cm[1]+`"`)
			}
		}
		idx += len(am[0])
	}

	body := ""
	if idx < len(text) {
		if text[idx] == '/' {
			addTag("i", "")
			idx++
		}
		body = strings.ReplaceAll(EncodeEntity(text[idx:]), "|", "<br>")
	}
	return "<p>" + strings.Join(open, "") + body + strings.Join(closing, "") + "</p>"
}
