package translate

import (
	"regexp"
	"strings"
)

var (
	newlineRegex  = regexp.MustCompile(`\s*\r?\n\s*`)
	openWrapRegex = regexp.MustCompile(`(?i)^<(i|b|u|s|font)(\s[^>]*)?>`)
)

// enclosingTag is a formatting tag that wraps a whole paragraph body.
type enclosingTag struct {
	name string
	open string
}

// enclosingTags lists the tags around the whole of body, outermost first.
// "<i><b>x</b></i>" yields i and b; "<i>a</i> <i>b</i>" yields nothing.
func enclosingTags(body string) []enclosingTag {
	var tags []enclosingTag
	rest := strings.TrimSpace(body)
	for {
		m := openWrapRegex.FindStringSubmatch(rest)
		if m == nil {
			return tags
		}
		name := strings.ToLower(m[1])
		closing := "</" + name + ">"
		inner := rest[len(m[0]):]
		if !strings.HasSuffix(strings.ToLower(inner), closing) {
			return tags
		}
		inner = inner[:len(inner)-len(closing)]
		if strings.Contains(strings.ToLower(inner), closing) {
			return tags
		}
		tags = append(tags, enclosingTag{name: name, open: m[0]})
		rest = strings.TrimSpace(inner)
	}
}

func hasTag(body, name string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "<"+name+">") || strings.Contains(lower, "<"+name+" ")
}

// restoreMarkup repairs the usual ways a model mangles a paragraph: raw
// newlines instead of <br>, and a wrapper such as <i>...</i> around the
// whole source line that the translation dropped.
func restoreMarkup(source, translated string) string {
	translated = newlineRegex.ReplaceAllString(strings.TrimSpace(translated), "<br>")
	if translated == "" {
		return translated
	}

	tags := enclosingTags(source)
	for i := len(tags) - 1; i >= 0; i-- {
		if hasTag(translated, tags[i].name) {
			continue
		}
		translated = tags[i].open + translated + "</" + tags[i].name + ">"
	}
	return translated
}
