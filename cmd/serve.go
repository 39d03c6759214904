package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/zeroml/internal/pipeline"
	"github.com/KaramelBytes/zeroml/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP backend",
	Long: `Run an HTTP backend exposing POST /api/process, GET /api/models,
GET /healthz and GET /metrics. The API credential stays in the server's
configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, model, err := newRuntime(cfg)
		if err != nil {
			return err
		}
		addr := serveAddr
		if addr == "" && cfg != nil {
			addr = cfg.ListenAddr
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := pipeline.NewMetrics(reg)
		if err != nil {
			return err
		}
		srv := server.New(pipeline.New(rt, model, logger, metrics), logger, reg)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}
