package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// TranslationItem is one caption paragraph sent to a model. Text is the
// paragraph body markup without its <p> wrapper; Key is the component key
// the paragraph is stored under and never leaves the process.
type TranslationItem struct {
	Index int    `json:"index"`
	Key   int    `json:"-"`
	Text  string `json:"text"`
}

// translated paragraph body, matched to its item by Index
type TranslationResult struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// interface for caption translation
type Translator interface {
	Translate(
		ctx context.Context,
		items []TranslationItem,
	) ([]TranslationResult, error)
}

// optional interface for translators that support concurrent batch processing
type ConcurrentTranslator interface {
	Translator
	TranslateWithConcurrency(
		ctx context.Context,
		items []TranslationItem,
		concurrency int,
	) ([]TranslationResult, error)
}

// translation service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// environment variable holding the provider's API key
func (p Provider) APIKeyEnv() string {
	switch p {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "API_KEY"
	}
}

type Options struct {
	InputLanguage  string
	TargetLanguage string
	Model          string
	Prompt         string // extra instructions appended to the rules
	BatchSize      int    // paragraphs per request (default 50)
}

func (o Options) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultBatchSize
}

// completer sends one prompt to a model and returns the reply text.
type completer interface {
	complete(ctx context.Context, prompt string) (string, error)
}

// CaptionTranslator batches caption paragraphs through one provider.
type CaptionTranslator struct {
	provider Provider
	model    string
	options  Options
	client   completer
}

func newCaptionTranslator(
	provider Provider,
	model string,
	opts Options,
	client completer,
) *CaptionTranslator {
	return &CaptionTranslator{
		provider: provider,
		model:    model,
		options:  opts,
		client:   client,
	}
}

func (t *CaptionTranslator) Provider() Provider {
	return t.provider
}

// model name requests are sent to
func (t *CaptionTranslator) Model() string {
	return t.model
}

func (t *CaptionTranslator) Translate(
	ctx context.Context,
	items []TranslationItem,
) ([]TranslationResult, error) {
	return translateSequential(ctx, items, t.options.batchSize(), t.translateBatch)
}

func (t *CaptionTranslator) TranslateWithConcurrency(
	ctx context.Context,
	items []TranslationItem,
	concurrency int,
) ([]TranslationResult, error) {
	return translateConcurrent(
		ctx,
		items,
		t.options.batchSize(),
		concurrency,
		t.translateBatch,
	)
}

func (t *CaptionTranslator) translateBatch(
	ctx context.Context,
	items []TranslationItem,
) ([]TranslationResult, error) {
	reply, err := t.client.complete(ctx, BuildPrompt(t.options, items))
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", t.provider, err)
	}
	if strings.TrimSpace(reply) == "" {
		return nil, fmt.Errorf("no text in %s response", t.provider)
	}
	return parseResponseText(reply, items)
}

// creates Translator based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}

	switch provider {
	case ProviderGemini:
		return NewGeminiTranslator(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranslator(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicTranslator(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
}

var promptRules = []string{
	"Each item is one caption paragraph shown on screen; translate it as natural spoken dialogue.",
	"Keep inline tags (<i>, <b>, <u>, <s>, <font color=...>) around the words they format.",
	"Keep every <br>: the translation must have the same number of lines as the item.",
	"Keep HTML entities such as &amp;, &lt; and &nbsp; written as entities.",
	`Reply with a JSON array only, one {"index", "text"} object per item, reusing each item's index.`,
	"Do not add notes or markdown fences.",
}

// BuildPrompt renders the request for one batch of caption paragraphs.
func BuildPrompt(opts Options, items []TranslationItem) string {
	var sb strings.Builder

	source := "subtitle captions"
	if opts.InputLanguage != "" {
		source = opts.InputLanguage + " " + source
	}
	fmt.Fprintf(&sb, "Translate these %s into %s.\n\nRules:\n", source, opts.TargetLanguage)
	for i, rule := range promptRules {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, rule)
	}
	if opts.Prompt != "" {
		fmt.Fprintf(&sb, "\nAlso: %s\n", opts.Prompt)
	}

	// markup must reach the model verbatim, not as \u003cbr\u003e
	var payload bytes.Buffer
	enc := json.NewEncoder(&payload)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	_ = enc.Encode(items)

	fmt.Fprintf(&sb, "\nCaptions:\n%s", payload.String())
	return sb.String()
}
