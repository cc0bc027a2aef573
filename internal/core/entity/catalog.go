package entity

import (
	"context"

	"tenderdesk/internal/core/apperror"
	"tenderdesk/internal/core/id"
)

// Catalog is the base type for reference data.
// Examples: materials, companies, employees.
type Catalog struct {
	BaseCatalog

	// Code is a human-readable identifier (unique within database)
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`
}

// NewCatalog creates a new Catalog with generated identifiers.
func NewCatalog(kind id.Kind, code, name string) Catalog {
	return Catalog{
		BaseCatalog: NewBaseCatalog(kind),
		Code:        code,
		Name:        name,
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	if c.RefID == "" {
		return apperror.NewValidation("reference identifier is required").
			WithDetail("field", "refId")
	}

	// Code can be auto-generated, so it's optional at creation
	// but required at save time

	return nil
}
