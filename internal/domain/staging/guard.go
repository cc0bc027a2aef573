package staging

import (
	"context"
	"time"

	"tenderdesk/internal/core/apperror"
)

// Guard stages entries into a buffer while rejecting duplicates: a second
// entry for the same material reference is refused with a conflict error
// naming the entry already staged, never silently ignored or overwritten.
type Guard struct {
	store Store
	ttl   time.Duration
}

// NewGuard creates a guard over a store. A non-positive ttl uses DefaultTTL.
func NewGuard(store Store, ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Guard{store: store, ttl: ttl}
}

// TryStage appends the entry to the buffer unless one with the same material
// reference is already staged.
func (g *Guard) TryStage(ctx context.Context, buffer string, e Entry) error {
	live, err := g.store.ListLive(ctx, buffer)
	if err != nil {
		return apperror.NewStoreUnavailable(err)
	}

	for _, existing := range live {
		if existing.MaterialRef != "" && existing.MaterialRef == e.MaterialRef {
			return apperror.NewDuplicateItem(e.MaterialRef, existing.MaterialName)
		}
	}

	if e.StagedAt.IsZero() {
		e.StagedAt = time.Now().UTC()
	}
	return g.store.Set(ctx, buffer, e.Key, e, g.ttl)
}

// Remove drops a staged entry.
func (g *Guard) Remove(ctx context.Context, buffer, key string) error {
	return g.store.Remove(ctx, buffer, key)
}

// List returns the live staged entries of a buffer.
func (g *Guard) List(ctx context.Context, buffer string) ([]Entry, error) {
	return g.store.ListLive(ctx, buffer)
}

// Clear removes every live entry of a buffer, used after the tender is
// persisted and its staged items have been promoted to real line items.
func (g *Guard) Clear(ctx context.Context, buffer string) error {
	keys, err := g.store.ListLiveKeys(ctx, buffer)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := g.store.Remove(ctx, buffer, key); err != nil {
			return err
		}
	}
	return nil
}
