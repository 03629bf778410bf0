package subtitle

import (
	"testing"
)

func TestParseTag(t *testing.T) {
	text := `<SYNC Start=1000 class="a b" data-x='q'>rest`
	tag := parseTag(text, 0)

	if tag.Name != "sync" {
		t.Errorf("expected name sync, got %q", tag.Name)
	}
	if tag.Value("start") != "1000" {
		t.Errorf("expected start 1000, got %q", tag.Value("start"))
	}
	if tag.Value("Class") != "a b" {
		t.Errorf("expected class 'a b', got %q", tag.Value("class"))
	}
	if tag.Value("data-x") != "q" {
		t.Errorf("expected data-x q, got %q", tag.Value("data-x"))
	}
	if text[tag.Pos:] != "rest" {
		t.Errorf("expected position before 'rest', got %q", text[tag.Pos:])
	}
}

func TestParseTagClosingAndComment(t *testing.T) {
	if tag := parseTag("</P>", 0); tag.Name != "/p" {
		t.Errorf("expected /p, got %q", tag.Name)
	}
	if tag := parseTag("<br/>x", 0); tag.Name != "br" || tag.Pos != 5 {
		t.Errorf("expected br ending at 5, got %q at %d", tag.Name, tag.Pos)
	}
	text := "<!-- <sync start=1> -->after"
	tag := parseTag(text, 0)
	if tag.Name != "!--" || text[tag.Pos:] != "after" {
		t.Errorf("expected comment skipped, got %q at %d", tag.Name, tag.Pos)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"  spaced\n  out  ", "spaced out"},
		{
			`<font color="red" face="x">Hi</font> <span>there</span><br/>x`,
			`<font color="red">Hi</font> there<br>x`,
		},
		{"<B>bold</B> <I>it</I>", "<b>bold</b> <i>it</i>"},
		{"a &amp; b", "a &amp; b"},
		{"<v Roger>Hello", "Hello"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	got := PlainText("<p>Hello<br>World</p>", "<p>&nbsp;</p>", "<p><i>a &amp; b</i></p>")
	want := "Hello\nWorld\na & b"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if PlainText("<p></p>") != "" {
		t.Error("expected empty paragraph to be dropped")
	}
}

func TestEncodeEntity(t *testing.T) {
	if got := EncodeEntity(`<a & "b">`); got != "&lt;a &amp; &#34;b&#34;&gt;" {
		t.Errorf("unexpected encoding: %q", got)
	}
}
