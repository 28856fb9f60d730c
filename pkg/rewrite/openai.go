package rewrite

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// Config holds OpenAI chat client configuration.
type Config struct {
	APIKey string
	Model  string // defaults to gpt-4o-mini
}

// OpenAICompleter implements Completer using the OpenAI chat API.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter creates an OpenAI-backed completer
func NewOpenAICompleter(cfg Config) (*OpenAICompleter, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("rewrite: API key not set")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAICompleter{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
	}, nil
}

// Complete sends a single-turn prompt and returns the model's reply.
func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", errors.New("OpenAI API error: " + err.Error())
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no completion returned from API")
	}

	return resp.Choices[0].Message.Content, nil
}
