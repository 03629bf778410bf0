package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// replies for a full batch of short captions stay well under this
const anthropicMaxTokens = 4096

type anthropicClient struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicTranslator translates captions with Anthropic Claude.
func NewAnthropicTranslator(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*CaptionTranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := anthropic.Model(opts.Model)
	if opts.Model == "" {
		model = anthropic.ModelClaudeHaiku4_5
	}
	return newCaptionTranslator(
		ProviderAnthropic,
		string(model),
		opts,
		&anthropicClient{client: anthropic.NewClient(option.WithAPIKey(apiKey)), model: model},
	), nil
}

func (c *anthropicClient) complete(ctx context.Context, prompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}
	if message == nil {
		return "", fmt.Errorf("empty response")
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
