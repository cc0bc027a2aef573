package employee

import (
	"context"

	"tenderdesk/internal/domain"
)

// Repository defines the interface for Employee persistence.
type Repository interface {
	domain.CatalogRepository[*Employee]

	// ListByCompany retrieves employees of a company.
	ListByCompany(ctx context.Context, companyRef string) ([]*Employee, error)
}
