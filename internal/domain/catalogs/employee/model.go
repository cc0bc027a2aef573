// Package employee provides the Employee catalog: the people who create and
// manage tenders on behalf of a company.
package employee

import (
	"context"
	"regexp"

	"tenderdesk/internal/core/apperror"
	"tenderdesk/internal/core/entity"
	"tenderdesk/internal/core/id"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Employee represents a person managing tenders.
type Employee struct {
	entity.Catalog

	// CompanyRef is the reference identifier of the employing company
	CompanyRef string `db:"company_ref" json:"companyRef"`

	// Position is the job title
	Position *string `db:"position" json:"position,omitempty"`

	// Phone is the contact phone
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Email is the contact email
	Email *string `db:"email" json:"email,omitempty"`
}

// NewEmployee creates a new Employee with required fields.
func NewEmployee(code, name, companyRef string) *Employee {
	return &Employee{
		Catalog:    entity.NewCatalog(id.KindEmployee, code, name),
		CompanyRef: companyRef,
	}
}

// Validate implements entity.Validatable interface.
func (e *Employee) Validate(ctx context.Context) error {
	if err := e.Catalog.Validate(ctx); err != nil {
		return err
	}

	if e.CompanyRef != "" && !id.IsRef(e.CompanyRef, id.KindCompany) {
		return apperror.NewValidation("invalid company reference").
			WithDetail("field", "companyRef").
			WithDetail("value", e.CompanyRef)
	}

	if e.Email != nil && *e.Email != "" && !emailRE.MatchString(*e.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	return nil
}
