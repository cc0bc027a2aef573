// Package material provides the source material catalogs: raw materials,
// local products, foreign products, and manufactured products. All four kinds
// share one model and a uniform lookup contract; each kind is stored in its
// own table.
package material

import (
	"context"

	"tenderdesk/internal/core/apperror"
	"tenderdesk/internal/core/entity"
	"tenderdesk/internal/core/id"
	"tenderdesk/internal/core/types"
)

// Kind discriminates the four material catalogs.
type Kind string

const (
	KindRawMaterial  Kind = "raw_material"
	KindLocalProduct Kind = "local_product"
	KindForeign      Kind = "foreign_product"
	KindManufactured Kind = "manufactured_product"
)

// AllKinds lists every material kind in registry iteration order.
var AllKinds = []Kind{KindRawMaterial, KindLocalProduct, KindForeign, KindManufactured}

// RefKind maps a material kind to its reference identifier prefix.
func (k Kind) RefKind() id.Kind {
	switch k {
	case KindRawMaterial:
		return id.KindRawMaterial
	case KindLocalProduct:
		return id.KindLocalProduct
	case KindForeign:
		return id.KindForeignProduct
	case KindManufactured:
		return id.KindManufactured
	}
	return id.Kind("")
}

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindRawMaterial, KindLocalProduct, KindForeign, KindManufactured:
		return true
	}
	return false
}

// Material represents one entry of a source material catalog.
// Tender line items reference materials only by RefID plus Kind; the storage
// key is an implementation detail and may be reassigned during migrations.
type Material struct {
	entity.Catalog

	// Kind discriminates which catalog this entry belongs to.
	// Not a db column: each kind lives in its own table.
	Kind Kind `db:"-" json:"kind"`

	// Category groups materials for display and reporting
	Category string `db:"category" json:"category"`

	// Unit is the unit of measure (kg, pcs, m, ...)
	Unit string `db:"unit" json:"unit"`

	// BasePrice is the catalog price, used when no quotes are attached
	BasePrice types.Money `db:"base_price" json:"basePrice"`

	// SupplierName is the default supplier (free text)
	SupplierName string `db:"supplier_name" json:"supplierName,omitempty"`

	// Manufacturer is used as supplier fallback when SupplierName is empty
	Manufacturer string `db:"manufacturer" json:"manufacturer,omitempty"`

	// Active materials participate in pricing refresh; inactive ones are
	// skipped, not failed.
	Active bool `db:"active" json:"active"`

	// Quotes are supplier price offers (JSONB). When non-empty, the minimum
	// quote is authoritative over BasePrice.
	Quotes QuoteList `db:"quotes" json:"quotes,omitempty"`
}

// New creates a material of the given kind with generated identifiers.
func New(kind Kind, code, name string) *Material {
	return &Material{
		Catalog: entity.NewCatalog(kind.RefKind(), code, name),
		Kind:    kind,
		Active:  true,
	}
}

// Validate implements entity.Validatable.
func (m *Material) Validate(ctx context.Context) error {
	if err := m.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !m.Kind.IsValid() {
		return apperror.NewValidation("invalid material kind").
			WithDetail("field", "kind").
			WithDetail("value", string(m.Kind))
	}

	if m.BasePrice.IsNegative() {
		return apperror.NewValidation("base price cannot be negative").
			WithDetail("field", "basePrice")
	}

	for i, q := range m.Quotes {
		if q.Price.IsNegative() {
			return apperror.NewValidation("quote price cannot be negative").
				WithDetail("field", "quotes").
				WithDetail("index", i)
		}
	}

	return nil
}
