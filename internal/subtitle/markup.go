package subtitle

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Tag is one markup element found while scanning SAMI or similar text.
// Name is lower case and keeps a leading '/' for closing tags. Pos is the
// offset just past the tag.
type Tag struct {
	Name  string
	Attrs map[string]string
	Pos   int
}

func (t Tag) Value(key string) string {
	return t.Attrs[strings.ToLower(key)]
}

func isTagSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// parseTag reads the tag starting at text[pos], which must be '<'.
func parseTag(text string, pos int) Tag {
	tag := Tag{Attrs: map[string]string{}}
	i := pos + 1
	if strings.HasPrefix(text[i:], "!--") {
		tag.Name = "!--"
		end := strings.Index(text[i:], "-->")
		if end < 0 {
			tag.Pos = len(text)
		} else {
			tag.Pos = i + end + 3
		}
		return tag
	}

	start := i
	for i < len(text) && !isTagSpace(text[i]) && text[i] != '>' &&
		(text[i] != '/' || i == start) {
		i++
	}
	tag.Name = strings.ToLower(text[start:i])

	for i < len(text) {
		for i < len(text) && (isTagSpace(text[i]) || text[i] == '/') {
			i++
		}
		if i >= len(text) {
			break
		}
		if text[i] == '>' {
			i++
			break
		}
		keyStart := i
		for i < len(text) && !isTagSpace(text[i]) && text[i] != '=' &&
			text[i] != '>' {
			i++
		}
		key := strings.ToLower(text[keyStart:i])
		for i < len(text) && isTagSpace(text[i]) {
			i++
		}
		if i >= len(text) || text[i] != '=' {
			tag.Attrs[key] = ""
			continue
		}
		i++
		for i < len(text) && isTagSpace(text[i]) {
			i++
		}
		if i >= len(text) {
			tag.Attrs[key] = ""
			break
		}
		var value string
		if q := text[i]; q == '"' || q == '\'' {
			end := strings.IndexByte(text[i+1:], q)
			if end < 0 {
				value = text[i+1:]
				i = len(text)
			} else {
				value = text[i+1 : i+1+end]
				i += end + 2
			}
		} else {
			valueStart := i
			for i < len(text) && !isTagSpace(text[i]) && text[i] != '>' {
				i++
			}
			value = text[valueStart:i]
		}
		tag.Attrs[key] = value
	}
	tag.Pos = i
	return tag
}

// RichTextBlock is one sanitized paragraph with the attributes of the tag
// that opened it.
type RichTextBlock struct {
	Text  string
	Attrs map[string]string
}

// Paragraph wraps the block in the paragraph marker stored in components.
func (b RichTextBlock) Paragraph() string {
	return "<p>" + b.Text + "</p>"
}

type richTextBlockParser struct {
	text string
	pos  int
}

func newRichTextBlockParser(text string) *richTextBlockParser {
	return &richTextBlockParser{text: text}
}

func (p *richTextBlockParser) atEnd() bool {
	return p.pos >= len(p.text)
}

// nextTag finds the first tag at or after from.
func (p *richTextBlockParser) nextTag(from int) (int, Tag, bool) {
	if from >= len(p.text) {
		return len(p.text), Tag{}, false
	}
	idx := strings.IndexByte(p.text[from:], '<')
	if idx < 0 {
		return len(p.text), Tag{}, false
	}
	at := from + idx
	return at, parseTag(p.text, at), true
}

// get finds the next tag called open and returns the text between it and
// the following tag whose name matches end. The returned tag has an empty
// name once no opening tag is left.
func (p *richTextBlockParser) get(open string, end *regexp.Regexp) (string, Tag) {
	var opening Tag
	for {
		_, tag, ok := p.nextTag(p.pos)
		if !ok {
			p.pos = len(p.text)
			return "", Tag{}
		}
		p.pos = tag.Pos
		if tag.Name == open {
			opening = tag
			break
		}
	}

	from := opening.Pos
	for {
		at, tag, ok := p.nextTag(from)
		if !ok {
			p.pos = len(p.text)
			return p.text[opening.Pos:], opening
		}
		if end.MatchString(tag.Name) {
			if tag.Name == open {
				p.pos = at
			} else {
				p.pos = tag.Pos
			}
			return p.text[opening.Pos:at], opening
		}
		from = tag.Pos
	}
}

// paragraph reads the next <p> region. Text outside of any <p> counts as a
// paragraph without attributes. blocks is empty when the paragraph has no
// visible content, which callers keep as an end marker.
func (p *richTextBlockParser) paragraph() (blocks []RichTextBlock, tag Tag, ok bool) {
	for {
		for p.pos < len(p.text) && isTagSpace(p.text[p.pos]) {
			p.pos++
		}
		if p.atEnd() {
			return nil, Tag{}, false
		}
		if p.text[p.pos] != '<' {
			break
		}
		t := parseTag(p.text, p.pos)
		if t.Name == "/p" {
			p.pos = t.Pos
			continue
		}
		if t.Name == "p" {
			tag = t
			p.pos = t.Pos
		}
		break
	}
	if tag.Attrs == nil {
		tag.Attrs = map[string]string{}
	}

	start := p.pos
	from := start
	end := len(p.text)
	next := len(p.text)
	for {
		at, t, found := p.nextTag(from)
		if !found {
			break
		}
		if t.Name == "p" {
			end, next = at, at
			break
		}
		if t.Name == "/p" {
			end, next = at, t.Pos
			break
		}
		from = t.Pos
	}
	p.pos = next

	text := Sanitize(p.text[start:end])
	if PlainText(text) == "" {
		return nil, tag, true
	}
	return []RichTextBlock{{Text: text, Attrs: tag.Attrs}}, tag, true
}

// EncodeEntity escapes caption text for the HTML subset stored in
// components.
func EncodeEntity(text string) string {
	return html.EscapeString(text)
}

// collapses runs of HTML whitespace the way a renderer would
func collapseSpace(s string) string {
	var sb strings.Builder
	space := false
	for i := 0; i < len(s); i++ {
		if isTagSpace(s[i]) {
			space = true
			continue
		}
		if space && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		space = false
		sb.WriteByte(s[i])
	}
	if space && sb.Len() > 0 {
		sb.WriteByte(' ')
	}
	return sb.String()
}

// Sanitize reduces a markup fragment to the subset br, i, u, s, b and
// font color. Text is re-escaped and unknown tags are dropped while their
// text is kept.
func Sanitize(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var sb strings.Builder
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.Trim(collapseSpace(sb.String()), " ")
		case html.TextToken:
			sb.WriteString(html.EscapeString(string(z.Text())))
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch tag := string(name); tag {
			case "br":
				sb.WriteString("<br>")
			case "i", "u", "s", "b":
				sb.WriteString("<" + tag + ">")
			case "font":
				color := ""
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					if string(key) == "color" {
						color = string(val)
					}
				}
				if color == "" {
					sb.WriteString("<font>")
				} else {
					sb.WriteString(`<font color="` + html.EscapeString(color) + `">`)
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch tag := string(name); tag {
			case "i", "u", "s", "b", "font":
				sb.WriteString("</" + tag + ">")
			}
		}
	}
}

// PlainText strips markup from paragraphs. Line breaks become newlines,
// paragraphs are joined by newlines and blank paragraphs are dropped.
func PlainText(paragraphs ...string) string {
	var out []string
	for _, paragraph := range paragraphs {
		z := html.NewTokenizer(strings.NewReader(paragraph))
		var sb strings.Builder
	tokens:
		for {
			switch z.Next() {
			case html.ErrorToken:
				break tokens
			case html.TextToken:
				sb.WriteString(strings.ReplaceAll(string(z.Text()), "\u00a0", " "))
			case html.StartTagToken, html.SelfClosingTagToken:
				if name, _ := z.TagName(); string(name) == "br" {
					sb.WriteByte('\n')
				}
			}
		}
		var lines []string
		for _, line := range strings.Split(sb.String(), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			out = append(out, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(out, "\n")
}
