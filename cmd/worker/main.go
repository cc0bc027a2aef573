// Package main is the background worker: it drains the event outbox,
// purges failed messages, and cleans up expired idempotency keys.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tenderdesk/internal/config"
	"tenderdesk/internal/core/events"
	"tenderdesk/internal/infrastructure/storage/postgres"
	"tenderdesk/pkg/logger"
)

const (
	outboxBatchSize   = 50
	relayInterval     = 5 * time.Second
	cleanupInterval   = 10 * time.Minute
	failedRetention   = 7 * 24 * time.Hour
	idempotencyBudget = 30 * time.Second
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting tenderdesk worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Postgres.DSN))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	bus := events.NewBus()
	bus.Subscribe(events.TopicTenderItemsChanged, func(ctx context.Context, payload any) {
		if e, ok := payload.(events.TenderItemsChanged); ok {
			log.Infow("tender items changed", "tender_ref", e.TenderRef, "items", len(e.ItemRefs))
		}
	})
	bus.Subscribe(events.TopicMaterialChanged, func(ctx context.Context, payload any) {
		if e, ok := payload.(events.MaterialChanged); ok {
			log.Infow("material changed", "kind", e.MaterialKind, "material_ref", e.MaterialRef)
		}
	})

	relay := postgres.NewOutboxRelay(pool.Unwrap(), outboxBatchSize, &busHandler{bus: bus})
	idempotency := postgres.NewIdempotencyStore(pool, txManager, cfg.Idempotency.TTL)

	relayTicker := time.NewTicker(relayInterval)
	defer relayTicker.Stop()
	cleanupTicker := time.NewTicker(cleanupInterval)
	defer cleanupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("worker stopped")
			return

		case <-relayTicker.C:
			n, err := relay.ProcessBatch(ctx)
			if err != nil {
				log.Errorw("outbox batch failed", "error", err)
				continue
			}
			if n > 0 {
				log.Infow("outbox batch processed", "count", n)
			}

		case <-cleanupTicker.C:
			runCleanup(ctx, log, relay, idempotency)
		}
	}
}

// runCleanup purges exhausted outbox messages and expired idempotency keys.
func runCleanup(ctx context.Context, log *logger.Logger, relay *postgres.OutboxRelay, idempotency *postgres.IdempotencyStore) {
	cleanupCtx, cancel := context.WithTimeout(ctx, idempotencyBudget)
	defer cancel()

	if n, err := relay.PurgeFailed(cleanupCtx, failedRetention); err != nil {
		log.Errorw("outbox purge failed", "error", err)
	} else if n > 0 {
		log.Infow("purged failed outbox messages", "count", n)
	}

	if n, err := idempotency.CleanupExpired(cleanupCtx); err != nil {
		log.Errorw("idempotency cleanup failed", "error", err)
	} else if n > 0 {
		log.Infow("cleaned up expired idempotency keys", "count", n)
	}
}

// busHandler republishes drained outbox messages on the in-process bus.
type busHandler struct {
	bus *events.Bus
}

func (h *busHandler) Handle(ctx context.Context, msg *postgres.OutboxMessage) error {
	switch events.Topic(msg.Topic) {
	case events.TopicTenderItemsChanged:
		var e events.TenderItemsChanged
		if err := json.Unmarshal(msg.Payload, &e); err != nil {
			return fmt.Errorf("decode %s payload: %w", msg.Topic, err)
		}
		h.bus.Publish(ctx, events.TopicTenderItemsChanged, e)

	case events.TopicMaterialChanged:
		var e events.MaterialChanged
		if err := json.Unmarshal(msg.Payload, &e); err != nil {
			return fmt.Errorf("decode %s payload: %w", msg.Topic, err)
		}
		h.bus.Publish(ctx, events.TopicMaterialChanged, e)

	default:
		// Unknown topics are acknowledged, not retried forever.
		return nil
	}
	return nil
}
