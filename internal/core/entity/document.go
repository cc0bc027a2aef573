package entity

import (
	"context"
	"time"

	"tenderdesk/internal/core/apperror"
	"tenderdesk/internal/core/id"
)

// Document is the base type for business transactions.
// Examples: Tender.
type Document struct {
	BaseDocument

	// Number is the document number (auto-generated, unique within type+period)
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// CompanyRef is the owning company's reference identifier
	CompanyRef string `db:"company_ref" json:"companyRef"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document with generated identifiers.
func NewDocument(kind id.Kind, companyRef string) Document {
	return Document{
		BaseDocument: NewBaseDocument(kind),
		Date:         time.Now().UTC(),
		CompanyRef:   companyRef,
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	if d.RefID == "" {
		return apperror.NewValidation("reference identifier is required").
			WithDetail("field", "refId")
	}

	return nil
}

// GetID returns the document storage key.
func (d *Document) GetID() id.ID {
	return d.ID
}
