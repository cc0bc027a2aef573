// Package main is the entry point for the tenderdesk API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"tenderdesk/internal/config"
	"tenderdesk/internal/core/events"
	"tenderdesk/internal/domain/documents/tender"
	v1 "tenderdesk/internal/infrastructure/http/v1"
	"tenderdesk/internal/infrastructure/metrics"
	"tenderdesk/internal/infrastructure/storage/blob"
	"tenderdesk/internal/infrastructure/storage/postgres"
	"tenderdesk/migrations"
	"tenderdesk/pkg/logger"
	"tenderdesk/pkg/numerator"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting tenderdesk server")

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Fatalw("migrations failed", "error", err)
	}
	log.Info("migrations applied")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Postgres.DSN)
	poolCfg.MaxConns = cfg.Postgres.MaxConns
	poolCfg.MinConns = cfg.Postgres.MinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Redis (primary staging tier, optional) ---
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// Staging falls back to the in-memory store; keep going.
			log.Warnw("redis unavailable, staging will use memory fallback", "error", err)
		}
		defer redisClient.Close()
	}

	// --- Blob store (attachments, optional) ---
	var blobs tender.BlobStore
	if cfg.GCS.Enabled {
		gcs, err := blob.NewGCSStore(ctx, cfg.GCS.Bucket)
		if err != nil {
			log.Fatalw("failed to create blob store", "error", err)
		}
		defer gcs.Close()
		blobs = gcs
	}

	// --- Audit journal ---
	audit, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to create audit service", "error", err)
	}

	// --- Metrics ---
	var refreshMetrics tender.RefreshMetrics
	if cfg.Metrics.Enabled {
		refreshMetrics = metrics.NewRefreshMetrics(nil)
		go serveMetrics(cfg.Metrics.Addr, log)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:               pool,
		TxManager:          txManager,
		Redis:              redisClient,
		Logger:             log,
		Numerator:          numerator.New(pool),
		Bus:                events.NewBus(),
		Outbox:             postgres.NewOutboxPublisher(txManager),
		Blobs:              blobs,
		Metrics:            refreshMetrics,
		Audit:              audit,
		IdempotencyEnabled: cfg.Idempotency.Enabled,
		IdempotencyTTL:     cfg.Idempotency.TTL,
		StagingTTL:         cfg.Staging.TTL,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Infow("http server listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("http server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("forced shutdown", "error", err)
	}
	log.Info("server stopped")
}

// runMigrations applies the embedded schema migrations.
func runMigrations(dsn string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}

// serveMetrics exposes the Prometheus endpoint on its own listener.
func serveMetrics(addr string, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
	}
	log.Infow("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorw("metrics server failed", "error", err)
	}
}
