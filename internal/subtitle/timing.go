package subtitle

import (
	"math"
	"strconv"
	"time"
	"unicode/utf8"
)

// TimeToMSec converts a clock time to milliseconds.
func TimeToMSec(h, m, s, ms int) int {
	return ((h*60+m)*60+s)*1000 + ms
}

// converts regex captures holding h, m, s and ms digits
func capturesToMSec(h, m, s, ms string) (int, bool) {
	values := [4]int{}
	for i, field := range [4]string{h, m, s, ms} {
		if field == "" {
			continue
		}
		v, err := strconv.Atoi(field)
		if err != nil {
			return 0, false
		}
		values[i] = v
	}
	return TimeToMSec(values[0], values[1], values[2], values[3]), true
}

func frameToMSec(frame int, fps float64) int {
	return int(math.Round(float64(frame) / fps * 1000))
}

func validFPS(fps float64) bool {
	return fps > 0 && !math.IsInf(fps, 0) && !math.IsNaN(fps)
}

// EndTimePredictor guesses when a caption without an explicit end should
// disappear. Both arguments and the result are milliseconds.
type EndTimePredictor interface {
	PredictEnd(start int, text string) int
}

// LengthPredictor shows a caption PerRune per character, clamped to
// [Min, Max].
type LengthPredictor struct {
	PerRune time.Duration
	Min     time.Duration
	Max     time.Duration
}

func DefaultPredictor() LengthPredictor {
	return LengthPredictor{
		PerRune: 80 * time.Millisecond,
		Min:     1500 * time.Millisecond,
		Max:     5 * time.Second,
	}
}

func (p LengthPredictor) PredictEnd(start int, text string) int {
	d := time.Duration(utf8.RuneCountInString(text)) * p.PerRune
	if d < p.Min {
		d = p.Min
	}
	if p.Max > 0 && d > p.Max {
		d = p.Max
	}
	return start + int(d/time.Millisecond)
}
