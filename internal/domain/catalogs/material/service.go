package material

import (
	"context"
	"fmt"
	"time"

	"tenderdesk/internal/core/events"
	"tenderdesk/internal/core/tx"
	"tenderdesk/internal/domain"
	"tenderdesk/pkg/numerator"
)

// codePrefix maps a material kind to its code numerator prefix.
func codePrefix(kind Kind) string {
	switch kind {
	case KindRawMaterial:
		return "RM"
	case KindLocalProduct:
		return "LP"
	case KindForeign:
		return "FP"
	case KindManufactured:
		return "MP"
	}
	return "MT"
}

// Service provides business logic for one material catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Material]
	kind      Kind
	repo      Repository
	numerator numerator.Generator
	bus       *events.Bus
}

// NewService creates a service for the given material kind.
func NewService(
	kind Kind,
	repo Repository,
	txManager tx.Manager,
	num numerator.Generator,
	bus *events.Bus,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Material]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: string(kind),
	})

	svc := &Service{
		CatalogService: base,
		kind:           kind,
		repo:           repo,
		numerator:      num,
		bus:            bus,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnAfterCreate(svc.notifyChanged)
	base.Hooks().OnAfterUpdate(svc.notifyChanged)
	base.Hooks().OnAfterDelete(svc.notifyChanged)

	return svc
}

// Kind returns the material kind this service manages.
func (s *Service) Kind() Kind {
	return s.kind
}

// prepareForCreate stamps the kind and generates a code if not provided.
func (s *Service) prepareForCreate(ctx context.Context, m *Material) error {
	m.Kind = s.kind

	if m.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(codePrefix(s.kind)), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		m.Code = code
	}

	return nil
}

// notifyChanged publishes a material change event so dependent views and the
// reconciliation engine can re-query.
func (s *Service) notifyChanged(ctx context.Context, m *Material) error {
	if s.bus != nil {
		s.bus.Publish(ctx, events.TopicMaterialChanged, events.MaterialChanged{
			MaterialKind: string(s.kind),
			MaterialRef:  m.RefID,
		})
	}
	return nil
}

// FindByRefID retrieves a material by reference identifier.
func (s *Service) FindByRefID(ctx context.Context, refID string) (*Material, error) {
	m, err := s.repo.FindByRefID(ctx, refID)
	if err != nil {
		return nil, err
	}
	m.Kind = s.kind
	return m, nil
}

// FindByNameFallback retrieves a material by exact name match.
func (s *Service) FindByNameFallback(ctx context.Context, name string) (*Material, error) {
	m, err := s.repo.FindByNameFallback(ctx, name)
	if err != nil {
		return nil, err
	}
	m.Kind = s.kind
	return m, nil
}

// ListActive returns all active materials of this kind.
func (s *Service) ListActive(ctx context.Context) ([]*Material, error) {
	items, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range items {
		m.Kind = s.kind
	}
	return items, nil
}
