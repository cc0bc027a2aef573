package employee

import (
	"context"
	"fmt"
	"time"

	"tenderdesk/internal/core/tx"
	"tenderdesk/internal/domain"
	"tenderdesk/pkg/numerator"
)

// Service provides business logic for the Employee catalog.
type Service struct {
	*domain.CatalogService[*Employee]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Employee service.
func NewService(repo Repository, txManager tx.Manager, num numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Employee]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "employee",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, e *Employee) error {
	if e.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("EM"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		e.Code = code
	}
	return nil
}

// ListByCompany retrieves employees of a company.
func (s *Service) ListByCompany(ctx context.Context, companyRef string) ([]*Employee, error) {
	return s.repo.ListByCompany(ctx, companyRef)
}
