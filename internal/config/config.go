package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix is prepended to every key when read from the environment.
	EnvPrefix = "ZEROML"
	dirName   = ".zeroml"

	DefaultProvider   = "openai"
	DefaultModel      = "gpt-3.5-turbo-16k"
	DefaultListenAddr = ":8080"
	DefaultOllamaHost = "http://127.0.0.1:11434"
)

// Global configuration structure.
type Global struct {
	APIKey   string `mapstructure:"api_key" yaml:"api_key"`
	Provider string `mapstructure:"provider" yaml:"provider"`
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
	// Model is the completion model used for all three requests.
	Model          string `mapstructure:"model" yaml:"model"`
	HTTPTimeoutSec int    `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`

	// Local runtimes (Ollama)
	OllamaHost string `mapstructure:"ollama_host" yaml:"ollama_host"`

	// HTTP backend
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`

	// keyFromEnv marks a credential taken from a vendor variable; Save omits it.
	keyFromEnv bool
}

// Keys lists every settable configuration key.
var Keys = []string{"api_key", "provider", "base_url", "model", "http_timeout_sec", "ollama_host", "listen_addr", "log_level"}

// DefaultPath returns ~/.zeroml/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.zeroml/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	out := *c
	if c.keyFromEnv {
		out.APIKey = ""
	}
	b, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	// The file may hold a credential.
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. An explicit cfgFile must exist.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("api_key", "")
	v.SetDefault("provider", DefaultProvider)
	v.SetDefault("base_url", "")
	v.SetDefault("model", DefaultModel)
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("ollama_host", DefaultOllamaHost)
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("log_level", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.APIKey == "" {
		c.APIKey = providerKeyFromEnv(c.Provider)
		c.keyFromEnv = c.APIKey != ""
	}
	return &c, nil
}

// providerKeyFromEnv falls back to the vendor's conventional variable.
func providerKeyFromEnv(provider string) string {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "openrouter":
		if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
			return k
		}
	}
	return os.Getenv("OPENAI_API_KEY")
}

// Set assigns a single key by its config name.
func (c *Global) Set(key, value string) error {
	switch key {
	case "api_key":
		c.APIKey = value
		c.keyFromEnv = false
	case "provider":
		c.Provider = value
	case "base_url":
		c.BaseURL = value
	case "model":
		c.Model = value
	case "http_timeout_sec":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("http_timeout_sec must be a positive integer, got %q", value)
		}
		c.HTTPTimeoutSec = n
	case "ollama_host":
		c.OllamaHost = value
	case "listen_addr":
		c.ListenAddr = value
	case "log_level":
		c.LogLevel = value
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// MaskedKey returns the API key with everything but the last four characters hidden.
func (c *Global) MaskedKey() string {
	if c.APIKey == "" {
		return "(not set)"
	}
	if len(c.APIKey) <= 4 {
		return "****"
	}
	return "****" + c.APIKey[len(c.APIKey)-4:]
}
