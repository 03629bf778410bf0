package translate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var jsonBlockRegex = regexp.MustCompile("```(?:json)?\\s*")

func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	s = jsonBlockRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// fixInvalidEscapes doubles stray backslashes in model output, such as "\!"
// or "\<br\>", that are not JSON escapes, so the reply still decodes and the
// backslash survives as text.
func fixInvalidEscapes(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	i := 0
	for i < len(s) {
		if i < len(s)-1 && s[i] == '\\' {
			next := s[i+1]
			// Valid JSON escape sequences: ", \, /, b, f, n, r, t, u
			switch next {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
				result.WriteByte(s[i])
				result.WriteByte(s[i+1])
				i += 2
			default:
				result.WriteString("\\\\")
				result.WriteByte(next)
				i += 2
			}
		} else {
			result.WriteByte(s[i])
			i++
		}
	}

	return result.String()
}

// extractTranslationResults finds the first JSON value in a model response
// that holds translation results, either as a bare array or wrapped in an
// object.
func extractTranslationResults(text string) ([]TranslationResult, error) {
	text = fixInvalidEscapes(text)

	for i := 0; i < len(text); i++ {
		if text[i] != '[' && text[i] != '{' {
			continue
		}
		decoder := json.NewDecoder(strings.NewReader(text[i:]))
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			continue
		}
		if results, ok := tryExtractResults(gjson.ParseBytes(raw)); ok {
			return results, nil
		}
	}
	return nil, fmt.Errorf("no valid translation JSON found in response")
}

var wrapperKeys = []string{"results", "translations", "data", "items"}

func tryExtractResults(value gjson.Result) ([]TranslationResult, bool) {
	if value.IsArray() {
		results := resultsFromArray(value)
		return results, validateResults(results)
	}
	if !value.IsObject() {
		return nil, false
	}

	for _, key := range wrapperKeys {
		if field := value.Get(key); field.IsArray() {
			if results := resultsFromArray(field); validateResults(results) {
				return results, true
			}
		}
	}

	var found []TranslationResult
	value.ForEach(func(_, field gjson.Result) bool {
		if !field.IsArray() {
			return true
		}
		if results := resultsFromArray(field); validateResults(results) {
			found = results
			return false
		}
		return true
	})
	return found, found != nil
}

func resultsFromArray(value gjson.Result) []TranslationResult {
	var results []TranslationResult
	for _, elem := range value.Array() {
		if !elem.IsObject() {
			return nil
		}
		index := elem.Get("index")
		if !index.Exists() {
			return nil
		}
		results = append(results, TranslationResult{
			Index: int(index.Int()),
			Text:  elem.Get("text").String(),
		})
	}
	return results
}

func validateResults(results []TranslationResult) bool {
	for _, r := range results {
		if r.Text != "" {
			return true
		}
	}
	return false
}

// checkResults requires exactly one result per paragraph sent.
func checkResults(results []TranslationResult, items []TranslationItem) error {
	if len(results) != len(items) {
		return fmt.Errorf(
			"expected %d results, got %d",
			len(items),
			len(results),
		)
	}
	sent := make(map[int]struct{}, len(items))
	for _, item := range items {
		sent[item.Index] = struct{}{}
	}
	for _, r := range results {
		if _, ok := sent[r.Index]; !ok {
			return fmt.Errorf("unexpected or repeated result index %d", r.Index)
		}
		delete(sent, r.Index)
	}
	return nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// parseResponseText turns the raw model reply for items into results.
func parseResponseText(text string, items []TranslationItem) ([]TranslationResult, error) {
	text = cleanJSONResponse(text)

	results, err := extractTranslationResults(text)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to parse JSON response: %w (response: %s)",
			err,
			truncateString(text, 200),
		)
	}
	if err := checkResults(results, items); err != nil {
		return nil, err
	}

	sources := make(map[int]string, len(items))
	for _, item := range items {
		sources[item.Index] = item.Text
	}
	for i := range results {
		results[i].Text = restoreMarkup(sources[results[i].Index], results[i].Text)
	}
	return results, nil
}
