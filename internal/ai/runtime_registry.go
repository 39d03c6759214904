package ai

import (
	"fmt"
	"strings"
	"time"
)

// RuntimeFactory builds a Runtime from the generic config below.
type RuntimeFactory func(RuntimeConfig) Runtime

// RuntimeConfig carries the knobs runtimes need. Nothing here has a
// compiled-in credential; APIKey always comes from configuration.
type RuntimeConfig struct {
	HTTPTimeout time.Duration
	APIKey      string
	// BaseURL overrides the provider endpoint (OpenAI-compatible, Anthropic).
	BaseURL string
	// Host is the Ollama endpoint.
	Host string
}

var registry = map[string]RuntimeFactory{}

// RegisterRuntime registers a provider name with its factory.
func RegisterRuntime(name string, f RuntimeFactory) { registry[name] = f }

// NormalizeProvider folds aliases onto registered provider names.
func NormalizeProvider(name string) string {
	switch p := strings.ToLower(strings.TrimSpace(name)); p {
	case "":
		return ProviderOpenAI
	case ProviderLocal:
		return ProviderOllama
	default:
		return p
	}
}

// NewRuntime creates a Runtime for the given provider.
func NewRuntime(name string, cfg RuntimeConfig) (Runtime, error) {
	name = NormalizeProvider(name)
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("provider not supported: %s (use openai|openrouter|ollama|anthropic)", name)
	}
	return f(cfg), nil
}

func init() {
	RegisterRuntime(ProviderOpenAI, func(c RuntimeConfig) Runtime {
		return NewClient(c.APIKey, c.BaseURL, c.HTTPTimeout)
	})
	RegisterRuntime(ProviderOpenRouter, func(c RuntimeConfig) Runtime {
		base := c.BaseURL
		if base == "" {
			base = OpenRouterBaseURL
		}
		return NewClient(c.APIKey, base, c.HTTPTimeout)
	})
	RegisterRuntime(ProviderOllama, func(c RuntimeConfig) Runtime {
		return NewOllamaClient(c.Host, c.HTTPTimeout)
	})
	RegisterRuntime(ProviderAnthropic, func(c RuntimeConfig) Runtime {
		return NewAnthropicClient(c.APIKey, c.BaseURL, c.HTTPTimeout)
	})
}
