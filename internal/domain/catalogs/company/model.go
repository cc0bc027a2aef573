// Package company provides the Company catalog. Companies are the parties a
// tender is run for: buyers, suppliers, or both.
package company

import (
	"context"
	"regexp"

	"tenderdesk/internal/core/apperror"
	"tenderdesk/internal/core/entity"
	"tenderdesk/internal/core/id"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// CompanyType defines the role of the company in procurement.
type CompanyType string

const (
	TypeBuyer    CompanyType = "buyer"
	TypeSupplier CompanyType = "supplier"
	TypeBoth     CompanyType = "both"
)

// Company represents a business party participating in tenders.
type Company struct {
	entity.Catalog

	// Type defines whether this company buys, supplies, or both
	Type CompanyType `db:"type" json:"type"`

	// TaxNumber is the company's tax registration number
	TaxNumber *string `db:"tax_number" json:"taxNumber,omitempty"`

	// Address is the registered address
	Address *string `db:"address" json:"address,omitempty"`

	// Phone is the primary contact phone
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Email is the primary contact email
	Email *string `db:"email" json:"email,omitempty"`

	// ContactPerson is the primary contact name
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`

	// Comment is a free-form note
	Comment *string `db:"comment" json:"comment,omitempty"`
}

// NewCompany creates a new Company with required fields.
func NewCompany(code, name string, cType CompanyType) *Company {
	return &Company{
		Catalog: entity.NewCatalog(id.KindCompany, code, name),
		Type:    cType,
	}
}

// Validate implements entity.Validatable interface.
func (c *Company) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidCompanyType(c.Type) {
		return apperror.NewValidation("invalid company type").
			WithDetail("field", "type").
			WithDetail("value", string(c.Type))
	}

	if c.Email != nil && *c.Email != "" && !emailRE.MatchString(*c.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	return nil
}

// IsBuyer returns true if the company can own tenders.
func (c *Company) IsBuyer() bool {
	return c.Type == TypeBuyer || c.Type == TypeBoth
}

// IsSupplier returns true if the company can supply materials.
func (c *Company) IsSupplier() bool {
	return c.Type == TypeSupplier || c.Type == TypeBoth
}

func isValidCompanyType(t CompanyType) bool {
	switch t {
	case TypeBuyer, TypeSupplier, TypeBoth:
		return true
	}
	return false
}
