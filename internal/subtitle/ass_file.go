package subtitle

import (
	"regexp"
	"strconv"
	"strings"
)

var assOverrideRegex = regexp.MustCompile(`\{[^}]*\}`)
var assStyleRegex = regexp.MustCompile(`\\([ibus])([01])`)

// ASSParser reads the [Events] section of ASS/SSA scripts into a single
// component. Styles and positioning are left to the renderer; only the
// i/b/u/s overrides and line breaks survive.
type ASSParser struct{}

func (ASSParser) Format() Format {
	return FormatASS
}

func (ASSParser) Detect(src *Source) bool {
	switch src.Suffix() {
	case "ass", "ssa":
		return true
	}
	pos := src.Pos()
	defer src.SeekTo(pos)
	if src.SkipSeparators() {
		return false
	}
	line, _ := src.ReadLine()
	return strings.EqualFold(strings.TrimSpace(line), "[Script Info]")
}

func (ASSParser) Parse(src *Source) *Subtitle {
	src.SeekTo(0)
	sub := newSubtitle(src, FormatASS)
	comp := sub.Append("", TimeModeTime)

	inEvents := false
	var columns []string
	startCol, endCol, textCol := -1, -1, -1
	for !src.AtEnd() {
		line, _ := src.ReadLine()
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			inEvents = strings.EqualFold(trimmed, "[Events]")
			continue
		}
		if !inEvents {
			continue
		}

		if strings.HasPrefix(trimmed, "Format:") {
			columns = strings.Split(strings.TrimPrefix(trimmed, "Format:"), ",")
			for i, col := range columns {
				switch strings.ToLower(strings.TrimSpace(col)) {
				case "start":
					startCol = i
				case "end":
					endCol = i
				case "text":
					textCol = i
				}
			}
			continue
		}

		if !strings.HasPrefix(trimmed, "Dialogue:") {
			continue
		}
		if startCol < 0 || endCol < 0 || textCol < 0 {
			break
		}
		fields := splitASSFields(
			strings.TrimSpace(strings.TrimPrefix(trimmed, "Dialogue:")),
			len(columns),
		)
		if len(fields) < len(columns) {
			break
		}
		start, ok1 := parseASSTimestamp(fields[startCol])
		end, ok2 := parseASSTimestamp(fields[endCol])
		if !ok1 || !ok2 {
			break
		}
		appendCaption(comp, "<p>"+assToMarkup(fields[textCol])+"</p>", start, end)
	}
	return sub
}

func splitASSFields(content string, numFields int) []string {
	if numFields <= 0 {
		return nil
	}

	parts := make([]string, 0, numFields)
	remaining := content

	for i := 0; i < numFields-1; i++ {
		idx := strings.Index(remaining, ",")
		if idx == -1 {
			parts = append(parts, remaining)
			remaining = ""
			break
		}
		parts = append(parts, remaining[:idx])
		remaining = remaining[idx+1:]
	}

	return append(parts, remaining)
}

// parses H:MM:SS.cc into milliseconds; one to three fraction digits
func parseASSTimestamp(ts string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	if len(parts) != 3 {
		return 0, false
	}
	secParts := strings.Split(parts[2], ".")
	if len(secParts) != 2 {
		return 0, false
	}
	frac := secParts[1]
	if len(frac) == 0 || len(frac) > 3 {
		return 0, false
	}
	n, err := strconv.Atoi(frac)
	if err != nil {
		return 0, false
	}
	for i := len(frac); i < 3; i++ {
		n *= 10
	}
	return capturesToMSec(parts[0], parts[1], secParts[0], strconv.Itoa(n))
}

// assToMarkup converts dialogue text to the stored HTML subset.
func assToMarkup(text string) string {
	var sb strings.Builder
	var open []string
	closeTag := func(name string) {
		for i := len(open) - 1; i >= 0; i-- {
			if open[i] == name {
				sb.WriteString("</" + name + ">")
				open = append(open[:i], open[i+1:]...)
				return
			}
		}
	}

	last := 0
	for _, loc := range assOverrideRegex.FindAllStringIndex(text, -1) {
		sb.WriteString(assEscape(text[last:loc[0]]))
		for _, m := range assStyleRegex.FindAllStringSubmatch(text[loc[0]:loc[1]], -1) {
			if m[2] == "1" {
				sb.WriteString("<" + m[1] + ">")
				open = append(open, m[1])
			} else {
				closeTag(m[1])
			}
		}
		last = loc[1]
	}
	sb.WriteString(assEscape(text[last:]))
	for i := len(open) - 1; i >= 0; i-- {
		sb.WriteString("</" + open[i] + ">")
	}
	return sb.String()
}

func assEscape(text string) string {
	text = EncodeEntity(text)
	text = strings.ReplaceAll(text, `\N`, "<br>")
	text = strings.ReplaceAll(text, `\n`, "<br>")
	return strings.ReplaceAll(text, `\h`, "&nbsp;")
}
