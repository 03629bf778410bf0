package translate

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-5-mini"

type openAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAITranslator translates captions with OpenAI Chat Completions.
func NewOpenAITranslator(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*CaptionTranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := opts.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return newCaptionTranslator(
		ProviderOpenAI,
		model,
		opts,
		&openAIClient{client: openai.NewClient(option.WithAPIKey(apiKey)), model: model},
	), nil
}

func (c *openAIClient) complete(ctx context.Context, prompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if completion == nil || len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty response")
	}
	return completion.Choices[0].Message.Content, nil
}
