package subtitle

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestMicroDVDFrameRateHeader(t *testing.T) {
	src := NewSource("movie.sub", "{1}{2}{25}\n{10}{20}Hi\n")
	p := MicroDVDParser{}
	if !p.Detect(src) {
		t.Fatal("expected MicroDVD content to be detected")
	}
	sub := p.Parse(src)

	if len(sub.Components) != 1 {
		t.Fatalf("expected 1 component, got %d", len(sub.Components))
	}
	comp := sub.Components[0]
	if comp.Mode != TimeModeTime {
		t.Errorf("expected time mode, got %s", comp.Mode)
	}
	paragraphs, ok := comp.At(400)
	if !ok {
		t.Fatalf("expected entry at key 400, keys are %v", comp.Keys())
	}
	if !slices.Equal(paragraphs, []string{"<p>Hi</p>"}) {
		t.Errorf("expected [<p>Hi</p>], got %q", paragraphs)
	}
	if _, ok := comp.At(800); !ok {
		t.Error("expected end marker at key 800")
	}
}

func TestMicroDVDDecimalFrameRate(t *testing.T) {
	sub := MicroDVDParser{}.Parse(NewSource("movie.sub", "{1}{1}23.976\n{24}{48}One\n"))
	comp := sub.Components[0]
	if got := comp.Keys(); !slices.Equal(got, []int{1001, 2002}) {
		t.Errorf("expected keys [1001 2002], got %v", got)
	}
}

func TestMicroDVDFrameMode(t *testing.T) {
	sub := MicroDVDParser{}.Parse(NewSource("movie.sub", "{1}{1}abc\n{10}{20}Hi\n"))
	comp := sub.Components[0]
	if comp.Mode != TimeModeFrame {
		t.Fatalf("expected frame mode, got %s", comp.Mode)
	}
	if got := comp.Keys(); !slices.Equal(got, []int{1, 10, 20}) {
		t.Errorf("expected keys [1 10 20], got %v", got)
	}

	_, err := sub.Entries(TrackOptions{})
	if !errors.Is(err, ErrFrameMode) {
		t.Errorf("expected ErrFrameMode, got %v", err)
	}

	entries, err := sub.Entries(TrackOptions{FPS: 10})
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].StartTime != time.Second || entries[1].EndTime != 2*time.Second {
		t.Errorf(
			"expected second entry 1s-2s, got %v-%v",
			entries[1].StartTime,
			entries[1].EndTime,
		)
	}
}

func TestMicroDVDNumericCaptionIsNotHeader(t *testing.T) {
	sub := MicroDVDParser{}.Parse(NewSource("movie.sub", "{100}{200}2001\n{300}{400}Hi\n"))
	comp := sub.Components[0]
	if comp.Mode != TimeModeFrame {
		t.Fatalf("expected frame mode, got %s", comp.Mode)
	}
	if got := comp.Keys(); !slices.Equal(got, []int{100, 200, 300, 400}) {
		t.Fatalf("expected keys [100 200 300 400], got %v", got)
	}
	if paragraphs, _ := comp.At(100); !slices.Equal(paragraphs, []string{"<p>2001</p>"}) {
		t.Errorf("expected numeric caption to be kept, got %q", paragraphs)
	}
}

func TestMicroDVDCaption(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hi", "<p>Hi</p>"},
		{"{c:$FF0000}Red", `<p><font color="#0000FF">Red</font></p>`},
		{"{C:$0a0B0c}x", `<p><font color="#0c0B0a">x</font></p>`},
		{"{y:bi}Text", "<p><i><b>Text</b></i></p>"},
		{"{Y:U}Text", "<p><u>Text</u></p>"},
		{"{y:u}/Slanted|Line", "<p><u><i>Slanted<br>Line</i></u></p>"},
		{"/Whole line", "<p><i>Whole line</i></p>"},
		{"{y:i}", "<p><i></i></p>"},
		{"{f:Arial}{s:20}Font", "<p>Font</p>"},
		{"a < b", "<p>a &lt; b</p>"},
		{"Hello {y:i}there", "<p>Hello {y:i}there</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := microDVDCaption(tt.input); got != tt.want {
				t.Errorf("microDVDCaption(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMicroDVDNoHeader(t *testing.T) {
	sub := MicroDVDParser{}.Parse(NewSource("movie.sub", "not a subtitle\n"))
	if len(sub.Components) != 0 {
		t.Errorf("expected no components, got %d", len(sub.Components))
	}
}

func TestTMPlayerClosesCaptionAtPredictedEnd(t *testing.T) {
	p := TMPlayerParser{Predictor: LengthPredictor{
		PerRune: 100 * time.Millisecond,
		Min:     time.Second,
		Max:     3 * time.Second,
	}}
	src := NewSource("movie.txt", "00:00:01:Hi\n00:00:10:Second\n")
	if !p.Detect(src) {
		t.Fatal("expected TMPlayer content to be detected")
	}
	sub := p.Parse(src)
	comp := sub.Components[0]

	if got := comp.Keys(); !slices.Equal(got, []int{1000, 2000, 10000, 11000}) {
		t.Fatalf("expected keys [1000 2000 10000 11000], got %v", got)
	}
	if closing, _ := comp.At(2000); len(closing) != 0 {
		t.Errorf("expected empty closing entry at 2000, got %q", closing)
	}
	first, _ := comp.At(1000)
	if !slices.Equal(first, []string{"<p>Hi</p>"}) {
		t.Errorf("expected [<p>Hi</p>], got %q", first)
	}
}

func TestTMPlayerOverlapHasNoClosingEntry(t *testing.T) {
	p := TMPlayerParser{Predictor: LengthPredictor{
		PerRune: 100 * time.Millisecond,
		Min:     time.Second,
		Max:     3 * time.Second,
	}}
	sub := p.Parse(NewSource("movie.txt", "0:00:01=Hi\n0:00:02=A & B|again\n"))
	comp := sub.Components[0]
	if got := comp.Keys(); !slices.Equal(got, []int{1000, 2000, 3100}) {
		t.Fatalf("expected keys [1000 2000 3100], got %v", got)
	}
	second, _ := comp.At(2000)
	if !slices.Equal(second, []string{"<p>A &amp; B<br>again</p>"}) {
		t.Errorf("unexpected paragraphs at 2000: %q", second)
	}
}

func TestLengthPredictorClamps(t *testing.T) {
	p := DefaultPredictor()
	if got := p.PredictEnd(0, "x"); got != 1500 {
		t.Errorf("expected floor 1500, got %d", got)
	}
	if got := p.PredictEnd(1000, string(make([]byte, 1000))); got != 6000 {
		t.Errorf("expected ceiling 6000, got %d", got)
	}
	if got := p.PredictEnd(0, "twenty five characters!!!"); got != 2000 {
		t.Errorf("expected 2000, got %d", got)
	}
}
