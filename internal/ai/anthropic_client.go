package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicDefaultMaxTokens applies when a request leaves MaxTokens unset;
// the Messages API has no server-side default.
const anthropicDefaultMaxTokens = 4096

// AnthropicClient adapts the Anthropic Messages API to Runtime.
type AnthropicClient struct {
	client anthropic.Client
	apiKey string
}

// NewAnthropicClient builds a client with SDK retries disabled so every
// request is a single attempt like the other runtimes.
func NewAnthropicClient(apiKey, baseURL string, httpTimeout time.Duration) *AnthropicClient {
	if httpTimeout <= 0 {
		httpTimeout = 60 * time.Second
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: httpTimeout}),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicClient{client: anthropic.NewClient(opts...), apiKey: apiKey}
}

func (c *AnthropicClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if req.Model == "" {
		return nil, errors.New("model cannot be empty")
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: int64(maxTokens),
	}
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			params.System = append(params.System, anthropic.TextBlockParam{Text: m.Content})
		case "assistant":
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	if len(params.Messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		var sdkErr *anthropic.Error
		if errors.As(err, &sdkErr) {
			apiErr := newAPIError(sdkErr.StatusCode, []byte(sdkErr.RawJSON()))
			apiErr.RequestID = extractRequestID(sdkErr.Response)
			return nil, classifyAPIError(apiErr, sdkErr.Response)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &UnreachableError{Host: "anthropic", Err: err}
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	out := &GenerateResponse{
		ID: msg.ID,
		Usage: Usage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
		RequestID: msg.ID,
	}
	if sb.Len() > 0 {
		out.Choices = []Choice{{Message: Message{Role: "assistant", Content: sb.String()}}}
	}
	return out, nil
}
