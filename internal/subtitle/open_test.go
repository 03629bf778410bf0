package subtitle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestParseSRTFile(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:04,000
Hello, world!

2
00:00:05,500 --> 00:00:08,200
This is a test.
With multiple lines.

3
00:00:10,000 --> 00:00:12,500
Final subtitle.
`
	tmpDir := t.TempDir()
	srtPath := filepath.Join(tmpDir, "test.srt")
	if err := os.WriteFile(srtPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	sub, err := Open(srtPath)
	if err != nil {
		t.Fatalf("failed to open SRT file: %v", err)
	}

	if sub.Format != FormatSRT {
		t.Errorf("expected format SRT, got %s", sub.Format)
	}

	entries, err := sub.Entries(TrackOptions{})
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	if entries[0].StartTime != 1*time.Second {
		t.Errorf("entry 0: expected start 1s, got %v", entries[0].StartTime)
	}
	if entries[0].EndTime != 4*time.Second {
		t.Errorf("entry 0: expected end 4s, got %v", entries[0].EndTime)
	}
	if entries[0].Text != "Hello, world!" {
		t.Errorf("entry 0: expected 'Hello, world!', got %q", entries[0].Text)
	}
	if entries[1].Text != "This is a test.\nWith multiple lines." {
		t.Errorf("entry 1: unexpected text %q", entries[1].Text)
	}
}

func TestParseVTTFile(t *testing.T) {
	content := `WEBVTT
Kind: captions

NOTE this block is ignored
00:00:00.000 --> 00:00:01.000

intro
00:00:01.000 --> 00:00:04.000 align:start
<v Roger>Hello, <b>world</b>!

00:05.500 --> 00:08.200
This is a test.
With multiple lines.
`
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/subs/test.vtt", []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	sub, err := NewLoader(fs).Open("/subs/test.vtt")
	if err != nil {
		t.Fatalf("failed to open VTT file: %v", err)
	}
	if sub.Format != FormatVTT {
		t.Errorf("expected format VTT, got %s", sub.Format)
	}

	cues := sub.Components[0].Cues()
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Start != 1000 || cues[0].End != 4000 {
		t.Errorf("cue 0: expected 1000-4000, got %d-%d", cues[0].Start, cues[0].End)
	}
	if cues[0].Paragraphs[0] != "<p>Hello, <b>world</b>!</p>" {
		t.Errorf("cue 0: unexpected paragraph %q", cues[0].Paragraphs[0])
	}
	if cues[1].Start != 5500 || cues[1].End != 8200 {
		t.Errorf("cue 1: expected 5500-8200, got %d-%d", cues[1].Start, cues[1].End)
	}
	if cues[1].Paragraphs[0] != "<p>This is a test.<br>With multiple lines.</p>" {
		t.Errorf("cue 1: unexpected paragraph %q", cues[1].Paragraphs[0])
	}
}

func TestParseASSFile(t *testing.T) {
	content := `[Script Info]
Title: Test
ScriptType: v4.00+

[V4+ Styles]
Format: Name, Fontname, Fontsize
Style: Default,Arial,20

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:04.00,Default,,0,0,0,,Hello, world!
Dialogue: 0,0:00:05.50,0:00:08.20,Default,,0,0,0,,{\i1}Line one{\i0}\NLine two
Comment: 0,0:00:09.00,0:00:10.00,Default,,0,0,0,,skipped
Dialogue: 0,1:02:03.04,1:02:05.00,Default,,0,0,0,,{\pos(10,10)}a < b
`
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "test.ass", []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	sub, err := NewLoader(fs).Open("test.ass")
	if err != nil {
		t.Fatalf("failed to open ASS file: %v", err)
	}
	if sub.Format != FormatASS {
		t.Errorf("expected format ASS, got %s", sub.Format)
	}

	cues := sub.Components[0].Cues()
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(cues))
	}

	want := []struct {
		start, end int
		text       string
	}{
		{1000, 4000, "<p>Hello, world!</p>"},
		{5500, 8200, "<p><i>Line one</i><br>Line two</p>"},
		{3723040, 3725000, "<p>a &lt; b</p>"},
	}
	for i, w := range want {
		if cues[i].Start != w.start || cues[i].End != w.end {
			t.Errorf(
				"cue %d: expected %d-%d, got %d-%d",
				i, w.start, w.end, cues[i].Start, cues[i].End,
			)
		}
		if cues[i].Paragraphs[0] != w.text {
			t.Errorf("cue %d: expected %q, got %q", i, w.text, cues[i].Paragraphs[0])
		}
	}
}

func TestSplitASSFields(t *testing.T) {
	fields := splitASSFields("0,0:00:01.00,0:00:02.00,Default,,0,0,0,,a, b, c", 10)
	if len(fields) != 10 {
		t.Fatalf("expected 10 fields, got %d", len(fields))
	}
	if fields[9] != "a, b, c" {
		t.Errorf("expected text field to keep commas, got %q", fields[9])
	}
}

func TestParseASSTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"0:00:01.12", 1120, true},
		{"0:00:01.1", 1100, true},
		{"0:00:01.123", 1123, true},
		{"1:02:03.04", 3723040, true},
		{"0:00:01.1234", 0, false},
		{"0:00:01.", 0, false},
		{"0:00:01", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseASSTimestamp(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("parseASSTimestamp(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLoaderDetectionOrder(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		want    Format
	}{
		{"sami by extension", "a.smi", "<SAMI><BODY><SYNC Start=1>x</BODY></SAMI>", FormatSAMI},
		{"sami by content", "a.txt", "<sami><body><sync start=1>x", FormatSAMI},
		{"srt by content", "a.txt", "1\n00:00:01,000 --> 00:00:02,000\nx\n", FormatSRT},
		{"vtt by content", "a.txt", "WEBVTT\n\n00:01.000 --> 00:02.000\nx\n", FormatVTT},
		{"ass by content", "a.txt", "[Script Info]\n[Events]\n", FormatASS},
		{"microdvd", "a.sub", "{10}{20}x\n", FormatMicroDVD},
		{"tmplayer", "a.txt", "00:00:01:x\n", FormatTMPlayer},
	}

	loader := NewLoader(afero.NewMemMapFs())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := loader.Load(tt.path, []byte(tt.content))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if sub.Format != tt.want {
				t.Errorf("expected format %s, got %s", tt.want, sub.Format)
			}
			if sub.Path != tt.path {
				t.Errorf("expected path %q, got %q", tt.path, sub.Path)
			}
		})
	}
}

func TestLoaderDetectLeavesSourceUntouched(t *testing.T) {
	src := NewSource("a.txt", "\n\n00:00:01:x\n")
	p, ok := NewLoader(nil).Detect(src)
	if !ok {
		t.Fatal("expected a parser to claim the source")
	}
	if p.Format() != FormatTMPlayer {
		t.Errorf("expected TMPlayer, got %s", p.Format())
	}
	if src.Pos() != 0 {
		t.Errorf("detection moved position to %d", src.Pos())
	}
}

func TestLoaderCustomParsers(t *testing.T) {
	parsers, err := ParsersByName([]string{"tmplayer"}, DefaultPredictor())
	if err != nil {
		t.Fatalf("ParsersByName failed: %v", err)
	}
	loader := NewLoader(nil)
	loader.Parsers = parsers

	_, err = loader.Load("a.srt", []byte("1\n00:00:01,000 --> 00:00:02,000\nx\n"))
	if !errors.Is(err, ErrUnrecognized) {
		t.Errorf("expected ErrUnrecognized, got %v", err)
	}

	if _, err := ParsersByName([]string{"lrc"}, nil); err == nil {
		t.Error("expected error for unknown parser name")
	}
}

func TestOpenUnsupportedFormat(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "test.txt", []byte("test"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := NewLoader(fs).Open("test.txt")
	if err == nil {
		t.Fatal("expected error for unsupported content")
	}
	if !errors.Is(err, ErrUnrecognized) {
		t.Errorf("expected ErrUnrecognized, got %v", err)
	}
	if err.Error() != "test.txt: subtitle could not be loaded" {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := NewLoader(afero.NewMemMapFs()).Open("missing.srt")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.Is(err, ErrUnrecognized) {
		t.Error("missing file should not report an unrecognized subtitle")
	}
}

func TestDecode(t *testing.T) {
	t.Run("utf8 kept", func(t *testing.T) {
		got, err := Decode([]byte("caf\xc3\xa9"), "", "windows-1252")
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if got != "café" {
			t.Errorf("expected café, got %q", got)
		}
	})

	t.Run("fallback", func(t *testing.T) {
		got, err := Decode([]byte("caf\xe9"), "", "windows-1252")
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if got != "café" {
			t.Errorf("expected café, got %q", got)
		}
	})

	t.Run("utf16 bom", func(t *testing.T) {
		data := []byte{0xFF, 0xFE, 'h', 0, 'i', 0}
		got, err := Decode(data, "", "")
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if got != "hi" {
			t.Errorf("expected hi, got %q", got)
		}
	})

	t.Run("hint", func(t *testing.T) {
		got, err := Decode([]byte{0xC7, 0xD1}, "euc-kr", "")
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if got != "한" {
			t.Errorf("expected 한, got %q", got)
		}
	})

	t.Run("unknown hint", func(t *testing.T) {
		if _, err := Decode([]byte("x"), "no-such-charset", ""); err == nil {
			t.Error("expected error for unknown encoding")
		}
	})
}

func TestLoaderFallbackEncoding(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := []byte("1\n00:00:01,000 --> 00:00:02,000\ncaf\xe9\n")
	if err := afero.WriteFile(fs, "latin.srt", content, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	loader := NewLoader(fs)
	loader.FallbackEncoding = "windows-1252"
	sub, err := loader.Open("latin.srt")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	paragraphs, _ := sub.Components[0].At(1000)
	if len(paragraphs) != 1 || paragraphs[0] != "<p>café</p>" {
		t.Errorf("unexpected paragraphs %q", paragraphs)
	}
}
