package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Clark-Hu/filmdb/internal/config"
	httpserver "github.com/Clark-Hu/filmdb/internal/http"
	"github.com/Clark-Hu/filmdb/internal/logging"
	"github.com/Clark-Hu/filmdb/internal/metrics"
	"github.com/Clark-Hu/filmdb/internal/repository"
	"github.com/Clark-Hu/filmdb/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()

	if err != nil {
		logger.Error("filmdb exited", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("server stopped")
	_ = logger.Sync()
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if cfg.DBMigrateOnStart {
		if err := store.Migrate(cfg.DBURL, logger); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	st, err := store.New(connectCtx, cfg.DBURL, storeOptions(cfg, logger))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer st.Close()

	if err := prometheus.Register(metrics.NewPoolCollector(st.Stats)); err != nil {
		logger.Warn("pool metrics not registered", zap.Error(err))
	}

	server := httpserver.New(cfg, st, repository.New(st), logger)
	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func storeOptions(cfg config.Config, logger *zap.Logger) store.Options {
	return store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	}
}
