package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/dori/projboard/internal/app"
	"github.com/dori/projboard/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

// runServe serves the web UI until SIGINT or SIGTERM. A non-empty addr
// overrides the configured listen address.
func runServe(cmd *cobra.Command, opts *globalOptions, addr string) error {
	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}
	defer logger.Sync()
	if addr != "" {
		cfg.Server.Addr = addr
	}

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(application.DB.DB, "projboard"),
	)

	srv, err := server.New(application.DB, server.Options{
		Categories:      cfg.Categories,
		Password:        cfg.Server.Password,
		Logger:          logger,
		Notifier:        application.Notifier,
		Registry:        registry,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting projboard",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr),
		zap.Strings("categories", cfg.Categories),
		zap.Bool("auth", cfg.Server.Password != ""),
	)
	return srv.Run(ctx, cfg.Server.Addr)
}
