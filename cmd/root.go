package cmd

import (
	"fmt"
	"os"
	"strings"

	cfgpkg "github.com/KaramelBytes/zeroml/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Overrides for config values when set
	flagHTTPTimeoutSec int
	flagProvider       string

	// Loaded configuration
	cfg *cfgpkg.Global
	// logger is replaced in PersistentPreRunE.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "zeroml",
	Short: "zeroml: cleaning steps, charts and model scripts for tabular data",
	Long: `zeroml reads a delimited data file, asks a language model for cleaning
steps, a chart configuration and a model-training script, and validates the
answers before handing them back. It can also run as an HTTP backend so the
API credential never leaves the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(debug, logLevel())
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.zeroml/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "completion provider: openai|openrouter|ollama|anthropic (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("provider") && flagProvider != "" {
		cfg.Provider = flagProvider
	}
}

func logLevel() string {
	if cfg == nil {
		return ""
	}
	return cfg.LogLevel
}

// newLogger builds a production zap logger writing to stderr so stdout
// stays clean for --json output.
func newLogger(debug bool, level string) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{"stderr"}
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	lvl := zapcore.WarnLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, fmt.Errorf("invalid log_level %q: %w", level, err)
		}
	}
	if debug {
		lvl = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}
