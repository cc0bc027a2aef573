package material

import (
	"context"

	"tenderdesk/internal/core/apperror"
)

// Registry dispatches lookups across the four material catalogs by kind.
// It holds one Source per kind and performs no caching of its own.
type Registry struct {
	sources map[Kind]Source
}

// NewRegistry creates a registry over the given sources.
func NewRegistry(sources map[Kind]Source) *Registry {
	r := &Registry{sources: make(map[Kind]Source, len(sources))}
	for kind, src := range sources {
		r.sources[kind] = src
	}
	return r
}

// Register adds or replaces the source for a kind.
func (r *Registry) Register(kind Kind, src Source) {
	r.sources[kind] = src
}

// Source returns the lookup source for a kind.
func (r *Registry) Source(kind Kind) (Source, error) {
	src, ok := r.sources[kind]
	if !ok {
		return nil, apperror.NewValidation("unknown material kind").
			WithDetail("kind", string(kind))
	}
	return src, nil
}

// Resolve finds a material by reference identifier, falling back to an exact
// name match when the primary lookup misses and a fallback name is known.
// Returns MaterialNotFound when both lookups miss.
func (r *Registry) Resolve(ctx context.Context, kind Kind, refID, fallbackName string) (*Material, error) {
	src, err := r.Source(kind)
	if err != nil {
		return nil, err
	}

	m, err := src.FindByRefID(ctx, refID)
	if err == nil {
		m.Kind = kind
		return m, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	if fallbackName == "" {
		return nil, apperror.NewMaterialNotFound(string(kind), refID)
	}

	m, err = src.FindByNameFallback(ctx, fallbackName)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewMaterialNotFound(string(kind), refID).
				WithDetail("fallbackName", fallbackName)
		}
		return nil, err
	}

	m.Kind = kind
	return m, nil
}

// ListActive returns all active materials of a kind.
func (r *Registry) ListActive(ctx context.Context, kind Kind) ([]*Material, error) {
	src, err := r.Source(kind)
	if err != nil {
		return nil, err
	}
	items, err := src.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range items {
		m.Kind = kind
	}
	return items, nil
}
