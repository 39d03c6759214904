package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestAnthropicGenerate(t *testing.T) {
	var body map[string]any
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            "msg_01",
			"type":          "message",
			"role":          "assistant",
			"model":         "claude-test",
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"content":       []map[string]any{{"type": "text", "text": `{"type":"bar"}`}},
			"usage":         map[string]any{"input_tokens": 12, "output_tokens": 3},
		})
	}))

	c := NewAnthropicClient("sk-ant-test", srv.URL, 2*time.Second)
	resp, err := c.Generate(context.Background(), GenerateRequest{
		Model:       "claude-test",
		Messages:    []Message{{Role: "system", Content: "be json"}, {Role: "user", Content: "hi"}},
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(resp.Choices) != 1 || resp.Choices[0].Message.Content != `{"type":"bar"}` {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Usage.TotalTokens != 15 || resp.RequestID != "msg_01" {
		t.Fatalf("unexpected metadata: %+v", resp)
	}
	if body["max_tokens"] != float64(anthropicDefaultMaxTokens) {
		t.Fatalf("expected default max_tokens, got %v", body["max_tokens"])
	}
	sys, _ := body["system"].([]any)
	if len(sys) != 1 {
		t.Fatalf("system prompt should be sent separately: %v", body["system"])
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("expected a single user message, got %v", body["messages"])
	}
}

func TestAnthropicGenerateAuthError(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "authentication_error", "message": "invalid x-api-key"},
		})
	}))
	c := NewAnthropicClient("bad", srv.URL, 2*time.Second)
	_, err := c.Generate(context.Background(), GenerateRequest{Model: "claude-test", Messages: []Message{{Role: "user", Content: "hi"}}})
	var auth *AuthError
	if !errors.As(err, &auth) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if auth.Code != "authentication_error" {
		t.Fatalf("unexpected code %q", auth.Code)
	}
}

func TestAnthropicRequiresKey(t *testing.T) {
	c := NewAnthropicClient("", "", time.Second)
	if _, err := c.Generate(context.Background(), GenerateRequest{Model: "m"}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
