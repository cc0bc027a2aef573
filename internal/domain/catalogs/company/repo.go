package company

import (
	"context"

	"tenderdesk/internal/domain"
)

// Repository defines the interface for Company persistence.
type Repository interface {
	domain.CatalogRepository[*Company]

	// FindByTaxNumber retrieves a company by tax registration number.
	FindByTaxNumber(ctx context.Context, taxNumber string) (*Company, error)
}
