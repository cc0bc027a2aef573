package company

import (
	"context"
	"fmt"
	"time"

	"tenderdesk/internal/core/apperror"
	"tenderdesk/internal/core/tx"
	"tenderdesk/internal/domain"
	"tenderdesk/pkg/numerator"
)

// Service provides business logic for the Company catalog.
type Service struct {
	*domain.CatalogService[*Company]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Company service.
func NewService(repo Repository, txManager tx.Manager, num numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Company]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "company",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.prepareForUpdate)

	return svc
}

// prepareForCreate handles code generation and uniqueness checks.
func (s *Service) prepareForCreate(ctx context.Context, c *Company) error {
	if c.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("CO"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		c.Code = code
	}

	return s.checkTaxNumberUnique(ctx, c)
}

// prepareForUpdate handles uniqueness checks.
func (s *Service) prepareForUpdate(ctx context.Context, c *Company) error {
	return s.checkTaxNumberUnique(ctx, c)
}

func (s *Service) checkTaxNumberUnique(ctx context.Context, c *Company) error {
	if c.TaxNumber == nil || *c.TaxNumber == "" {
		return nil
	}

	existing, err := s.repo.FindByTaxNumber(ctx, *c.TaxNumber)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != c.ID {
		return apperror.NewConflict("company with this tax number already exists").
			WithDetail("taxNumber", *c.TaxNumber)
	}
	return nil
}

// FindByTaxNumber retrieves a company by tax number.
func (s *Service) FindByTaxNumber(ctx context.Context, taxNumber string) (*Company, error) {
	return s.repo.FindByTaxNumber(ctx, taxNumber)
}
