package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgpai22/lekh/internal/subtitle"
	"github.com/samber/lo"
)

// Component translates every paragraph of comp and returns a new component
// labelled language with the same keys. End markers are carried over and
// paragraphs the provider did not return keep their original text.
func Component(
	ctx context.Context,
	tr Translator,
	comp *subtitle.Component,
	language string,
	concurrency int,
) (*subtitle.Component, error) {
	var items []TranslationItem
	for _, key := range comp.Keys() {
		paragraphs, _ := comp.At(key)
		for _, paragraph := range paragraphs {
			items = append(items, TranslationItem{
				Index: len(items),
				Key:   key,
				Text:  paragraphBody(paragraph),
			})
		}
	}

	var (
		results []TranslationResult
		err     error
	)
	if ct, ok := tr.(ConcurrentTranslator); ok && concurrency > 1 {
		results, err = ct.TranslateWithConcurrency(ctx, items, concurrency)
	} else {
		results, err = tr.Translate(ctx, items)
	}
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	translated := lo.SliceToMap(
		lo.Filter(results, func(r TranslationResult, _ int) bool {
			return r.Index >= 0 && r.Index < len(items)
		}),
		func(r TranslationResult) (int, string) {
			return r.Index, r.Text
		},
	)

	out := subtitle.NewComponent(language, comp.Mode)
	for _, key := range comp.Keys() {
		out.Insert(key)
	}
	for _, item := range items {
		text, ok := translated[item.Index]
		if !ok || strings.TrimSpace(text) == "" {
			text = item.Text
		}
		out.Append(item.Key, "<p>"+subtitle.Sanitize(text)+"</p>")
	}
	return out, nil
}

func paragraphBody(paragraph string) string {
	return strings.TrimSuffix(strings.TrimPrefix(paragraph, "<p>"), "</p>")
}
