package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nicovaras/clare/internal/modules/console/application/usecase"
	"github.com/nicovaras/clare/internal/modules/console/infrastructure"
	transport "github.com/nicovaras/clare/internal/modules/console/interface"
	"github.com/nicovaras/clare/internal/platform/broker"
	"github.com/nicovaras/clare/internal/shared/auth"
	"github.com/nicovaras/clare/internal/shared/logging"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the web console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, a)
		},
	}
}

func runServe(cmd *cobra.Command, a *app) error {
	cfg := a.cfg
	logFile, logger, err := logging.Setup(cfg.Logging.Directory, logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: true,
	})
	if err != nil {
		return fmt.Errorf("logging setup: %w", err)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))

	hub := infrastructure.NewHub()
	audit := broker.NewAuditPublisher(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
	backend := infrastructure.NewClassifierHTTPClient(a.baseURL, cfg.Backend.Timeout, nil)
	consoleUC := usecase.NewConsoleUseCase(backend, hub, audit)

	handler := transport.NewConsoleHandler(consoleUC, auth.NewTokenInspector(), transport.SessionDefaults{
		UserID:    cfg.Session.DefaultUserID,
		AuthToken: cfg.Session.DefaultAuthToken,
	}, backend.BaseURL())
	e, err := transport.NewServer(handler, hub)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		slog.Info("console listening", slog.String("addr", cfg.Server.Addr()), slog.String("backend", backend.BaseURL()), slog.Duration("backendTimeout", cfg.Backend.Timeout))
		if err := e.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		hub.Close()
		err := e.Shutdown(shutdownCtx)
		if closeErr := audit.Close(); closeErr != nil {
			slog.Warn("audit publisher close failed", slog.Any("error", closeErr))
		}
		return err
	})
	return g.Wait()
}
