package material

import (
	"context"

	"tenderdesk/internal/domain"
)

// Source is the uniform lookup contract a single material kind exposes to the
// reconciliation engine. Implementations do NOT cache: every call re-reads the
// backing store, trading latency for consistency with concurrent catalog
// edits.
type Source interface {
	// FindByRefID is the primary lookup by reference identifier.
	// A miss returns a not-found error value, never a panic.
	FindByRefID(ctx context.Context, refID string) (*Material, error)

	// FindByNameFallback looks up by exact name match. Used only after
	// FindByRefID misses. When several entries share a name the lowest
	// storage key wins; the ambiguity is documented, not resolved.
	FindByNameFallback(ctx context.Context, name string) (*Material, error)

	// ListActive returns all active materials of this kind.
	ListActive(ctx context.Context) ([]*Material, error)
}

// Repository defines full persistence for one material kind.
type Repository interface {
	domain.CatalogRepository[*Material]
	Source
}
