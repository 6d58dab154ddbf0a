package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vitaleco/m/internal/api"
	"vitaleco/m/internal/config"
	"vitaleco/m/internal/database"
	"vitaleco/m/internal/ledger"
	"vitaleco/m/internal/logging"
	"vitaleco/m/internal/migrations"
	"vitaleco/m/internal/seed"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.New(cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return err
	}
	if cfg.SeedInventory != "" {
		n, err := seed.LoadInventory(db, logger, cfg.SeedInventory)
		if err != nil {
			return err
		}
		logger.Info("inventory seeded", slog.String("path", cfg.SeedInventory), slog.Int("rows", n))
	}

	svc := ledger.NewService(db, logger)
	handler := api.New(db, svc, api.Options{
		Logger:         logger,
		AuthEnabled:    cfg.AuthEnabled,
		Secret:         cfg.Secret,
		TokenTTL:       cfg.TokenTTL,
		LoginRateLimit: cfg.LoginRateLimit,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("purchase ledger listening", slog.String("addr", cfg.HTTPAddr), slog.Bool("auth", cfg.AuthEnabled))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
