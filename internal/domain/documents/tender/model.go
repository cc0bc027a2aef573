// Package tender provides the Tender document and its line-item
// reconciliation engine. Line items reference source materials by stable
// reference identifier plus kind, never by storage key; cached display fields
// are re-derived from the source catalogs on every create, quantity edit, and
// bulk refresh.
package tender

import (
	"context"
	"time"

	"tenderdesk/internal/core/apperror"
	"tenderdesk/internal/core/entity"
	"tenderdesk/internal/core/id"
	"tenderdesk/internal/core/types"
	"tenderdesk/internal/domain/catalogs/material"
)

// Status defines the tender lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusClosed    Status = "closed"
)

// Tender represents a procurement tender document.
type Tender struct {
	entity.Document

	// Title is the tender display title
	Title string `db:"title" json:"title"`

	// Status is the lifecycle state
	Status Status `db:"status" json:"status"`

	// Deadline is the submission deadline, optional
	Deadline *time.Time `db:"deadline" json:"deadline,omitempty"`

	// Totals (recalculated from items)
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`
	ItemCount   int         `db:"item_count" json:"itemCount"`

	// Attachments holds uploaded file metadata (JSONB). Attachments never
	// interact with pricing.
	Attachments AttachmentList `db:"attachments" json:"attachments,omitempty"`

	// Items is the table part, loaded separately in position order.
	Items []*Item `db:"-" json:"items,omitempty"`
}

// NewTender creates a new draft tender.
func NewTender(title, companyRef string) *Tender {
	return &Tender{
		Document: entity.NewDocument(id.KindTender, companyRef),
		Title:    title,
		Status:   StatusDraft,
	}
}

// Validate implements entity.Validatable.
func (t *Tender) Validate(ctx context.Context) error {
	if err := t.Document.Validate(ctx); err != nil {
		return err
	}

	if t.Title == "" {
		return apperror.NewValidation("title is required").
			WithDetail("field", "title")
	}

	switch t.Status {
	case StatusDraft, StatusPublished, StatusClosed:
	default:
		return apperror.NewValidation("invalid tender status").
			WithDetail("field", "status").
			WithDetail("value", string(t.Status))
	}

	return nil
}

// CanModifyItems reports whether line items may still be changed.
func (t *Tender) CanModifyItems() error {
	if t.Status == StatusClosed {
		return apperror.NewBusinessRule(apperror.CodeTenderClosed, "tender is closed for modifications").
			WithDetail("tenderRef", t.RefID)
	}
	return nil
}

// RecalculateTotals updates header totals from the given items.
func (t *Tender) RecalculateTotals(items []*Item) {
	total := types.Zero()
	for _, it := range items {
		total = total.Add(it.TotalPrice)
	}
	t.TotalAmount = total
	t.ItemCount = len(items)
}

// Item is one tender line item. At most one item may exist per
// (tender, material reference, material kind); duplicate adds combine
// quantities on the existing item.
type Item struct {
	// ID is the storage key
	ID id.ID `db:"id" json:"id"`

	// RefID is the stable reference identifier (TI-...)
	RefID string `db:"ref_id" json:"refId"`

	// TenderID is the owning tender's storage key
	TenderID id.ID `db:"tender_id" json:"tenderId"`

	// Position is the insertion order; bulk refresh processes items in
	// position order.
	Position int `db:"position" json:"position"`

	// MaterialRef + MaterialKind identify the source material.
	// MaterialRef may be empty for legacy rows; such items are skipped
	// during refresh, never deleted.
	MaterialRef  string        `db:"material_ref" json:"materialRef"`
	MaterialKind material.Kind `db:"material_kind" json:"materialKind"`

	// Cached display fields, copied from the source material at last
	// resolution time. Not authoritative; may become stale.
	MaterialName     string `db:"material_name" json:"materialName"`
	MaterialCategory string `db:"material_category" json:"materialCategory"`
	MaterialUnit     string `db:"material_unit" json:"materialUnit"`

	// Supplier provenance of the last resolved price
	SupplierName      string `db:"supplier_name" json:"supplierName"`
	SupplierFromQuote bool   `db:"supplier_from_quote" json:"supplierFromQuote"`
	SupplierQuoteID   string `db:"supplier_quote_id" json:"supplierQuoteId,omitempty"`

	// Quantity is validated > 0 on create and update
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// UnitPrice and TotalPrice are derived: TotalPrice = UnitPrice × Quantity
	UnitPrice  types.Money `db:"unit_price" json:"unitPrice"`
	TotalPrice types.Money `db:"total_price" json:"totalPrice"`

	// Version for optimistic locking on the update path
	Version int `db:"version" json:"version"`

	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
	LastPriceUpdate *time.Time `db:"last_price_update" json:"lastPriceUpdate,omitempty"`
}

// NewItem creates a line item for a tender from a resolved material.
func NewItem(tenderID id.ID, m *material.Material, quantity types.Quantity) *Item {
	now := time.Now().UTC()
	item := &Item{
		ID:        id.New(),
		RefID:     id.NewRef(id.KindTenderItem),
		TenderID:  tenderID,
		Quantity:  quantity,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	item.ApplyMaterial(m)
	return item
}

// ApplyMaterial re-derives the cached fields and price from the material.
func (i *Item) ApplyMaterial(m *material.Material) {
	i.MaterialRef = m.RefID
	i.MaterialKind = m.Kind
	i.MaterialName = m.Name
	i.MaterialCategory = m.Category
	i.MaterialUnit = m.Unit
	i.ApplyPrice(material.ResolvePrice(m))
}

// ApplyPrice sets the unit price and supplier and recomputes the total.
func (i *Item) ApplyPrice(p material.ResolvedPrice) {
	i.UnitPrice = p.UnitPrice
	i.SupplierName = p.Supplier.Name
	i.SupplierFromQuote = p.Supplier.IsFromQuote
	i.SupplierQuoteID = p.Supplier.QuoteID
	i.recomputeTotal()
	now := time.Now().UTC()
	i.LastPriceUpdate = &now
}

// SetQuantity updates the quantity and recomputes the total.
func (i *Item) SetQuantity(q types.Quantity) {
	i.Quantity = q
	i.recomputeTotal()
}

func (i *Item) recomputeTotal() {
	i.TotalPrice = i.UnitPrice.Mul(i.Quantity)
}

// Touch bumps version and the updated timestamp.
func (i *Item) Touch() {
	i.Version++
	i.UpdatedAt = time.Now().UTC()
}

// Validate checks item invariants.
func (i *Item) Validate(ctx context.Context) error {
	if !i.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", i.Quantity.String())
	}
	if i.RefID == "" {
		return apperror.NewValidation("reference identifier is required").
			WithDetail("field", "refId")
	}
	return nil
}
