package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"syscall"
	"testing"
	"time"
)

type ipv4Server struct {
	URL string
	srv *http.Server
}

func newIPv4Server(t *testing.T, handler http.Handler) *ipv4Server {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		if errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM) {
			t.Skipf("skipping test: cannot open local listener (%v)", err)
		}
		t.Fatalf("listen tcp4: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(fmt.Sprintf("test server serve: %v", err))
		}
	}()
	s := &ipv4Server{URL: "http://" + ln.Addr().String(), srv: srv}
	t.Cleanup(s.Close)
	return s
}

func (s *ipv4Server) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
}

func TestGenerateSendsConversation(t *testing.T) {
	var got GenerateRequest
	var auth string
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("X-Request-Id", "req_ok")
		_ = json.NewEncoder(w).Encode(GenerateResponse{Choices: []Choice{{Message: Message{Role: "assistant", Content: "{}"}}}})
	}))

	c := NewClient("sk-test", srv.URL, 2*time.Second)
	resp, err := c.Generate(context.Background(), GenerateRequest{
		Model:       "gpt-test",
		Messages:    []Message{{Role: "system", Content: "sys"}, {Role: "user", Content: "hi"}},
		Temperature: 0.7,
		MaxTokens:   4000,
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if resp.RequestID != "req_ok" {
		t.Fatalf("expected request id, got %q", resp.RequestID)
	}
	if auth != "Bearer sk-test" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if got.Model != "gpt-test" || len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Fatalf("unexpected request: %+v", got)
	}
	if got.Temperature != 0.7 || got.MaxTokens != 4000 {
		t.Fatalf("sampling overrides not sent: %+v", got)
	}
}

func TestGenerateOmitsUnsetSamplingFields(t *testing.T) {
	var raw map[string]any
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		_ = json.NewEncoder(w).Encode(GenerateResponse{Choices: []Choice{{Message: Message{Content: "x"}}}})
	}))
	c := NewClient("k", srv.URL, time.Second)
	if _, err := c.Generate(context.Background(), GenerateRequest{Model: "m", Messages: []Message{{Role: "user", Content: "hi"}}}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, ok := raw["temperature"]; ok {
		t.Fatalf("temperature should be omitted: %v", raw)
	}
	if _, ok := raw["max_tokens"]; ok {
		t.Fatalf("max_tokens should be omitted: %v", raw)
	}
}

func TestGenerateDoesNotRetry(t *testing.T) {
	var calls int32
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "slow down"}})
	}))
	c := NewClient("k", srv.URL, time.Second)
	_, err := c.Generate(context.Background(), GenerateRequest{Model: "m", Messages: []Message{{Role: "user", Content: "hi"}}})
	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rl.RetryAfter != 3*time.Second {
		t.Fatalf("expected Retry-After 3s, got %v", rl.RetryAfter)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected a single attempt, got %d", n)
	}
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		status int
		body   map[string]any
		check  func(error) bool
	}{
		{http.StatusUnauthorized, map[string]any{"error": map[string]any{"message": "bad key"}}, func(err error) bool { var e *AuthError; return errors.As(err, &e) }},
		{http.StatusNotFound, map[string]any{"error": map[string]any{"message": "x", "code": "model_not_found"}}, func(err error) bool { var e *ModelNotFoundError; return errors.As(err, &e) }},
		{http.StatusBadRequest, map[string]any{"error": map[string]any{"message": "bad"}}, func(err error) bool { var e *BadRequestError; return errors.As(err, &e) }},
		{http.StatusTooManyRequests, map[string]any{"error": map[string]any{"message": "x", "code": "insufficient_quota"}}, func(err error) bool { var e *QuotaExceededError; return errors.As(err, &e) }},
		{http.StatusBadGateway, map[string]any{"message": "upstream"}, func(err error) bool { var e *ServerError; return errors.As(err, &e) }},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_ = json.NewEncoder(w).Encode(tc.body)
			}))
			c := NewClient("k", srv.URL, time.Second)
			_, err := c.Generate(context.Background(), GenerateRequest{Model: "m", Messages: []Message{{Role: "user", Content: "hi"}}})
			if err == nil || !tc.check(err) {
				t.Fatalf("unexpected classification for %d: %v", tc.status, err)
			}
		})
	}
}

func TestErrorIncludesRequestID(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", "req_test_123")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "bad req", "code": "bad_request"}})
	}))
	c := NewClient("k", srv.URL, time.Second)
	_, err := c.Generate(context.Background(), GenerateRequest{Model: "m", Messages: []Message{{Role: "user", Content: "hi"}}})
	if err == nil || !strings.Contains(err.Error(), "req_test_123") {
		t.Fatalf("expected request id in error, got: %v", err)
	}
}

func TestGenerateRequiresAPIKey(t *testing.T) {
	c := NewClient("", "http://127.0.0.1:1", time.Second)
	_, err := c.Generate(context.Background(), GenerateRequest{Model: "m"})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestGenerateUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot open local listener: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	c := NewClient("k", "http://"+addr, time.Second)
	_, err = c.Generate(context.Background(), GenerateRequest{Model: "m", Messages: []Message{{Role: "user", Content: "hi"}}})
	var ue *UnreachableError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnreachableError, got %v", err)
	}
}
