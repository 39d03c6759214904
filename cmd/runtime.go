package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/zeroml/internal/ai"
	cfgpkg "github.com/KaramelBytes/zeroml/internal/config"
)

// newRuntime is swapped out in tests.
var newRuntime = buildRuntime

// buildRuntime resolves the provider, credential and completion model from
// configuration.
func buildRuntime(cfg *cfgpkg.Global) (ai.Runtime, string, error) {
	if cfg == nil {
		return nil, "", fmt.Errorf("no configuration loaded")
	}
	httpTimeout := 60 * time.Second
	if cfg.HTTPTimeoutSec > 0 {
		httpTimeout = time.Duration(cfg.HTTPTimeoutSec) * time.Second
	}
	provider := ai.NormalizeProvider(cfg.Provider)
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = cfgpkg.DefaultModel
	}
	if provider != ai.ProviderOllama && cfg.APIKey == "" {
		return nil, "", fmt.Errorf("%w: run `zeroml config set api_key <key>` or export %s", ai.ErrMissingAPIKey, keyEnvHint(provider))
	}
	rt, err := ai.NewRuntime(provider, ai.RuntimeConfig{
		HTTPTimeout: httpTimeout,
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Host:        cfg.OllamaHost,
	})
	if err != nil {
		return nil, "", err
	}
	return rt, model, nil
}

func keyEnvHint(provider string) string {
	switch provider {
	case ai.ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ai.ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	}
	return "OPENAI_API_KEY or ZEROML_API_KEY"
}
