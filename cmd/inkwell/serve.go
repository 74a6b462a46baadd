// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/inkwell/inkwell/internal/config"
	"github.com/inkwell/inkwell/internal/logging"
)

// shutdownTimeout bounds graceful shutdown of both servers.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Inkwell API server",
		Long: `Start the HTTP API server together with the observability server
(Prometheus metrics and health probes).`,
		RunE: runServe,
	}

	cmd.Flags().String("http.addr", "", "API listen address")
	cmd.Flags().String("http.metrics_addr", "", "observability listen address")
	cmd.Flags().String("http.base_url", "", "externally visible base URL for email links")
	cmd.Flags().String("log.format", "", "log format: json or text")
	cmd.Flags().String("database.url", "", "PostgreSQL connection URL")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("inkwell", version, cfg.Log.Format)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.pool.Close()

	obsErrCh, err := app.observability.Start()
	if err != nil {
		return oops.With("operation", "start observability server").Wrap(err)
	}

	apiErrCh, err := app.api.Start()
	if err != nil {
		stopServers(app, logger)
		return oops.With("operation", "start api server").Wrap(err)
	}

	app.ready.Store(true)
	logger.Info("inkwell is up",
		"api_addr", app.api.Addr(),
		"metrics_addr", app.observability.Addr(),
	)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-apiErrCh:
		if err != nil {
			logger.Error("api server failed", "error", err)
		}
	case err := <-obsErrCh:
		if err != nil {
			logger.Error("observability server failed", "error", err)
		}
	}

	app.ready.Store(false)
	stopServers(app, logger)
	return nil
}

func stopServers(app *application, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.api.Stop(shutdownCtx); err != nil {
		logger.Error("api server shutdown failed", "error", err)
	}
	if err := app.observability.Stop(shutdownCtx); err != nil {
		logger.Error("observability server shutdown failed", "error", err)
	}
}
