package subtitle

import (
	"regexp"
	"strings"
)

var tmplayerRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})[:=](.*)$`)

// TMPlayerParser reads "H:MM:SS:text" files. The format has no end times,
// so each caption is closed at a predicted end unless the next caption
// starts earlier.
type TMPlayerParser struct {
	Predictor EndTimePredictor
}

func (TMPlayerParser) Format() Format {
	return FormatTMPlayer
}

func (p TMPlayerParser) Detect(src *Source) bool {
	return lineParser{rx: tmplayerRegex}.detect(src)
}

func (p TMPlayerParser) Parse(src *Source) *Subtitle {
	predictor := p.Predictor
	if predictor == nil {
		predictor = DefaultPredictor()
	}
	lines := lineParser{rx: tmplayerRegex}

	src.SeekTo(0)
	sub := newSubtitle(src, FormatTMPlayer)
	comp := sub.Append("", TimeModeTime)
	predictedEnd := -1
	for !src.AtEnd() {
		line, _ := src.ReadLine()
		m := lines.match(line)
		if m == nil {
			continue
		}
		start, ok := capturesToMSec(m[1], m[2], m[3], "")
		if !ok {
			break
		}
		if predictedEnd > 0 && start > predictedEnd {
			comp.Insert(predictedEnd)
		}
		text := strings.TrimSpace(m[4])
		predictedEnd = predictor.PredictEnd(start, text)
		caption := strings.ReplaceAll(EncodeEntity(text), "|", "<br>")
		comp.Append(start, "<p>"+caption+"</p>")
	}
	if predictedEnd > 0 {
		comp.Insert(predictedEnd)
	}
	return sub
}
