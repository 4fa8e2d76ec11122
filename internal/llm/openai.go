package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// openAIBackend wraps the OpenAI chat completion API
type openAIBackend struct {
	client *openai.Client
	model  string
}

func newOpenAIBackend(apiKey, model string) *openAIBackend {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &openAIBackend{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// complete sends a system+user prompt pair and returns the trimmed
// first-choice text
func (b *openAIBackend) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: 0.1, // Low temperature for consistent, focused responses
		MaxTokens:   10,  // One token answer, leave headroom for tokenizer splits
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
