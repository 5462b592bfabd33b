package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ejack923/gmail-dashboard-backend/internal/config"
	"github.com/ejack923/gmail-dashboard-backend/internal/inbox"
	"github.com/ejack923/gmail-dashboard-backend/internal/instrumentation"
	"github.com/ejack923/gmail-dashboard-backend/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		debugMode   bool
		httpAddr    string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard HTTP server",
		Long: `Start the HTTP server exposing the inbox endpoints.

Endpoints:
  GET /                  service status
  GET /authorize         redirect to the Google consent screen
  GET /oauth2callback    OAuth redirect target
  GET /emails            flat message list
  GET /inbox/by-client   messages grouped by client bucket
  GET /inbox/summary     per-bucket message counts

Configuration is read from the environment (and a .env file when
present). The OAuth client comes from CREDENTIALS_PATH, classification
rules from RULES_PATH.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("http-addr") {
				cfg.HTTP.Addr = httpAddr
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.HTTP.MetricsAddr = metricsAddr
			}

			return runServe(cfg, debugMode)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address. Can also use HTTP_ADDR env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(cfg *config.Config, debugMode bool) error {
	setupLogging(debugMode)

	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slog.Error("instrumentation shutdown failed", "error", err)
		}
	}()

	service, err := buildService(cfg, inbox.WithMetrics(provider.Metrics()))
	if err != nil {
		return err
	}

	httpServer := server.New(cfg.HTTP.Addr, service,
		server.WithServerMetrics(provider.Metrics()),
	)

	var metricsServer *server.MetricsServer
	if cfg.HTTP.MetricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.HTTP.MetricsAddr,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", "error", err)
			}
		}()
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-shutdownCtx.Done():
		slog.Info("shutdown signal received")
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("http server stopped with error: %w", err)
		}
		return nil
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer stopCancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(stopCtx); err != nil {
			slog.Error("metrics server shutdown failed", "error", err)
		}
	}

	if err := httpServer.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("error shutting down http server: %w", err)
	}

	return nil
}

func setupLogging(debugMode bool) {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
