package staging

import (
	"context"
	"time"

	"tenderdesk/pkg/logger"
)

// TieredStore is a two-tier Store: writes and reads go to the primary
// (Redis-backed in production); on primary failure the call falls through to
// the in-memory fallback so a staging buffer survives a primary outage within
// one process. Writes go to both tiers so the fallback is warm.
type TieredStore struct {
	primary  Store
	fallback Store
}

// NewTieredStore composes a primary and a fallback store.
func NewTieredStore(primary, fallback Store) *TieredStore {
	return &TieredStore{primary: primary, fallback: fallback}
}

// Set implements Store.
func (s *TieredStore) Set(ctx context.Context, buffer, key string, e Entry, ttl time.Duration) error {
	// Fallback write is best-effort and keeps the tier warm.
	if err := s.fallback.Set(ctx, buffer, key, e, ttl); err != nil {
		logger.Warn(ctx, "staging fallback set failed", "buffer", buffer, "key", key, "error", err)
	}

	if err := s.primary.Set(ctx, buffer, key, e, ttl); err != nil {
		logger.Warn(ctx, "staging primary set failed, fallback holds the entry",
			"buffer", buffer, "key", key, "error", err)
	}
	return nil
}

// Get implements Store.
func (s *TieredStore) Get(ctx context.Context, buffer, key string) (Entry, bool, error) {
	e, ok, err := s.primary.Get(ctx, buffer, key)
	if err == nil {
		return e, ok, nil
	}
	logger.Warn(ctx, "staging primary get failed, using fallback", "buffer", buffer, "error", err)
	return s.fallback.Get(ctx, buffer, key)
}

// Remove implements Store.
func (s *TieredStore) Remove(ctx context.Context, buffer, key string) error {
	if err := s.fallback.Remove(ctx, buffer, key); err != nil {
		logger.Warn(ctx, "staging fallback remove failed", "buffer", buffer, "error", err)
	}
	if err := s.primary.Remove(ctx, buffer, key); err != nil {
		logger.Warn(ctx, "staging primary remove failed", "buffer", buffer, "error", err)
	}
	return nil
}

// ListLiveKeys implements Store.
func (s *TieredStore) ListLiveKeys(ctx context.Context, buffer string) ([]string, error) {
	keys, err := s.primary.ListLiveKeys(ctx, buffer)
	if err == nil {
		return keys, nil
	}
	logger.Warn(ctx, "staging primary list failed, using fallback", "buffer", buffer, "error", err)
	return s.fallback.ListLiveKeys(ctx, buffer)
}

// ListLive implements Store.
func (s *TieredStore) ListLive(ctx context.Context, buffer string) ([]Entry, error) {
	entries, err := s.primary.ListLive(ctx, buffer)
	if err == nil {
		return entries, nil
	}
	logger.Warn(ctx, "staging primary list failed, using fallback", "buffer", buffer, "error", err)
	return s.fallback.ListLive(ctx, buffer)
}

var _ Store = (*TieredStore)(nil)
