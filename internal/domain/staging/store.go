// Package staging provides the TTL-bounded holding area for line items of
// tenders that do not yet have a persisted identity. Buffers are scoped per
// user session; entries expire after a configurable duration and become
// invisible to reads without an explicit delete.
package staging

import (
	"context"
	"time"

	"tenderdesk/internal/core/types"
	"tenderdesk/internal/domain/catalogs/material"
)

// DefaultTTL bounds how long a staged entry stays readable.
const DefaultTTL = 4 * time.Hour

// Entry is one staged line item. It mirrors the persisted item's identifying
// and pricing fields; everything is re-resolved when the tender is saved.
type Entry struct {
	Key          string         `json:"key"`
	MaterialRef  string         `json:"materialRef"`
	MaterialKind material.Kind  `json:"materialKind"`
	MaterialName string         `json:"materialName"`
	Quantity     types.Quantity `json:"quantity"`
	UnitPrice    types.Money    `json:"unitPrice"`
	StagedAt     time.Time      `json:"stagedAt"`
}

// Store is a named key-value buffer with per-entry TTL. Implementations must
// exclude expired entries from Get and ListLiveKeys without requiring a
// sweep to have run first.
type Store interface {
	// Set stores an entry under (buffer, key) with the given TTL.
	Set(ctx context.Context, buffer, key string, e Entry, ttl time.Duration) error

	// Get returns the live entry or ok=false when absent or expired.
	Get(ctx context.Context, buffer, key string) (Entry, bool, error)

	// Remove deletes an entry. Removing an absent key is not an error.
	Remove(ctx context.Context, buffer, key string) error

	// ListLiveKeys returns the keys of all non-expired entries of a buffer.
	ListLiveKeys(ctx context.Context, buffer string) ([]string, error)

	// ListLive returns all non-expired entries of a buffer.
	ListLive(ctx context.Context, buffer string) ([]Entry, error)
}
