package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/wichananm65/storefront-console/internal/apiclient"
	"github.com/wichananm65/storefront-console/internal/checkout"
	"github.com/wichananm65/storefront-console/internal/config"
	"github.com/wichananm65/storefront-console/internal/logger"
	"github.com/wichananm65/storefront-console/internal/router"
	"github.com/wichananm65/storefront-console/internal/session"
	"github.com/wichananm65/storefront-console/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("console stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx := context.Background()

	store, closeStore, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions, err := session.Open(ctx, store, log)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	api := apiclient.New(cfg.APIBaseURL, sessions,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithLogger(log),
		apiclient.WithUnauthorizedHandler(sessions.Expire),
	)

	app := router.New(router.Deps{
		API:      api,
		Sessions: sessions,
		Checkout: checkout.Config{
			MerchantName: cfg.MerchantName,
			CallbackURL:  cfg.PublicURL + "/checkout/payment/callback",
			FailureURL:   cfg.PublicURL + "/checkout/payment/failed",
		},
		AllowOrigins: cfg.AllowOrigins,
		Logger:       log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("console listening",
			zap.String("addr", cfg.Addr),
			zap.String("api", cfg.APIBaseURL),
			zap.String("storage", cfg.StorageDriver),
		)
		errCh <- app.Listen(cfg.Addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}
	return app.ShutdownWithTimeout(10 * time.Second)
}

func openStorage(ctx context.Context, cfg config.Config) (storage.Storage, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return storage.NewInMemoryStorage(nil), func() {}, nil
	case config.StoragePostgres:
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		s := storage.NewPostgresStorage(db, cfg.Profile)
		if err := s.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, func() { db.Close() }, nil
	default:
		return storage.NewFileStorage(cfg.StoragePath), func() {}, nil
	}
}
