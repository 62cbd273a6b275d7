package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vanshika/dronepath/internal/app"
	"github.com/vanshika/dronepath/internal/config"
	"github.com/vanshika/dronepath/internal/logging"
	"github.com/vanshika/dronepath/internal/observability"
	"github.com/vanshika/dronepath/internal/server"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "dronepath-server",
		Short:        "Serve drone route queries over HTTP",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "optional config file (yaml, toml or json)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath)
		},
	})
	return root
}

func serve(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return err
	}

	logger := logging.New(cfg.Logging)
	for _, warning := range cfg.Validate() {
		logger.Warn("config", "warning", warning)
	}

	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName: "dronepath",
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRate:  cfg.Tracing.SampleRate,
		Insecure:    cfg.Tracing.Insecure,
	})
	if err != nil {
		logger.Error("failed to initialise tracing", "error", err)
		return err
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	src, closeSource, err := app.BuildSource(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to create graph source", "error", err, "kind", cfg.Source.Kind)
		return err
	}
	defer func() {
		if err := closeSource(context.Background()); err != nil {
			logger.Warn("closing graph source failed", "error", err)
		}
	}()

	routes, batch := app.BuildRouteService(cfg.Routing, src, logger)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health: server.HealthChecks{
			cfg.Source.Kind: server.SourceHealthService{Source: src},
		},
		Routes:           server.NewRouteHandlers(logger, routes, batch),
		AllowedOrigins:   cfg.HTTP.AllowedOrigins(),
		AllowCredentials: true,
		MetricsEnabled:   cfg.HTTP.MetricsEnabled,
		RequestTimeout:   cfg.HTTP.RequestTimeout,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return err
	}
	return nil
}
