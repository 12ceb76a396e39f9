package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vbonduro/staycheck/internal/logging"
	"github.com/vbonduro/staycheck/internal/web"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  "Start the JSON HTTP API for properties, checks, photo uploads and damage reports.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides LISTEN_ADDR)")

	return cmd
}

func runServe(ctx context.Context, addr string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.ListenAddr = addr
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return err
	}
	defer cleanup()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer, err := newAnalyzer(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info("vision backend configured", "backend", cfg.VisionBackend)

	a, err := newApp(cfg, analyzer, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return web.NewServer(a.properties, a.inspections, logger).ListenAndServe(ctx, cfg.ListenAddr)
}
