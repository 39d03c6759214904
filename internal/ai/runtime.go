package ai

import (
	"context"
	"strings"
)

// Runtime is implemented by completion backends (OpenAI-compatible HTTP,
// Ollama, Anthropic).
type Runtime interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// Provider identifiers accepted in configuration.
const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderLocal      = "local"
	ProviderAnthropic  = "anthropic"
)

// Conversation is one system instruction plus one user prompt.
// Zero Temperature and MaxTokens leave the service defaults in place.
type Conversation struct {
	Model       string
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Complete sends the conversation and returns the first choice's text.
// An answer with no choices or blank content is an error.
func Complete(ctx context.Context, rt Runtime, conv Conversation) (string, error) {
	resp, err := rt.Generate(ctx, GenerateRequest{
		Model: conv.Model,
		Messages: []Message{
			{Role: "system", Content: conv.System},
			{Role: "user", Content: conv.User},
		},
		MaxTokens:   conv.MaxTokens,
		Temperature: conv.Temperature,
	})
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}
