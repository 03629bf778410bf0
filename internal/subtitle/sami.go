package subtitle

import (
	"regexp"
	"strconv"
	"strings"
)

var samiBlockEnd = regexp.MustCompile(`^(?:/?sync|/body|/sami)$`)

// SAMIParser reads Microsoft SAMI files. Every distinct paragraph class
// becomes its own component.
type SAMIParser struct{}

func (SAMIParser) Format() Format {
	return FormatSAMI
}

func (SAMIParser) Detect(src *Source) bool {
	switch src.Suffix() {
	case "smi", "sami":
		return true
	}
	pos := src.Pos()
	defer src.SeekTo(pos)
	if src.SkipSeparators() {
		return false
	}
	head := src.Remaining()
	return len(head) >= 5 && strings.EqualFold(head[:5], "<sami")
}

func (SAMIParser) Parse(src *Source) *Subtitle {
	sub := newSubtitle(src, FormatSAMI)
	text := src.Text()
	src.SeekTo(len(text))

	pos := samiBodyStart(text)
	parser := newRichTextBlockParser(text[pos:])
	for !parser.atEnd() {
		block, syncTag := parser.get("sync", samiBlockEnd)
		if syncTag.Name == "" {
			break
		}
		sync, err := strconv.Atoi(strings.TrimSpace(syncTag.Value("start")))
		if err != nil {
			break
		}

		var classes []string
		blocks := map[string][]RichTextBlock{}
		p := newRichTextBlockParser(block)
		for {
			paragraph, tag, ok := p.paragraph()
			if !ok {
				break
			}
			class := tag.Value("class")
			if _, seen := blocks[class]; !seen {
				classes = append(classes, class)
			}
			blocks[class] = append(blocks[class], paragraph...)
		}

		for _, class := range classes {
			comp := sub.Component(class)
			if comp == nil {
				comp = sub.Append(class, TimeModeTime)
			}
			paragraphs := make([]string, 0, len(blocks[class]))
			for _, b := range blocks[class] {
				paragraphs = append(paragraphs, b.Paragraph())
			}
			comp.Append(sync, paragraphs...)
		}
	}
	return sub
}

// samiBodyStart returns the offset of the first <sync> tag, or of <body>
// when it comes first.
func samiBodyStart(text string) int {
	pos := 0
	for pos < len(text) {
		idx := strings.IndexByte(text[pos:], '<')
		if idx < 0 {
			return len(text)
		}
		at := pos + idx
		tag := parseTag(text, at)
		if tag.Name == "body" || tag.Name == "sync" {
			return at
		}
		pos = max(tag.Pos, at+1)
	}
	return pos
}
