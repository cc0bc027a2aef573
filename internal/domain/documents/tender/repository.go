package tender

import (
	"context"
	"time"

	"tenderdesk/internal/core/id"
	"tenderdesk/internal/domain"
	"tenderdesk/internal/domain/catalogs/material"
)

// Repository defines operations for tender documents and their line items.
type Repository interface {
	// Document operations
	Create(ctx context.Context, doc *Tender) error
	GetByID(ctx context.Context, docID id.ID) (*Tender, error)
	GetByRefID(ctx context.Context, refID string) (*Tender, error)
	GetByNumber(ctx context.Context, number string) (*Tender, error)
	Update(ctx context.Context, doc *Tender) error
	// Delete removes the tender and cascades to its items.
	Delete(ctx context.Context, docID id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Tender], error)

	// Item operations
	CreateItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, itemID id.ID) (*Item, error)
	GetItemByRefID(ctx context.Context, refID string) (*Item, error)
	// FindItem locates the unique item of a (tender, material ref, kind)
	// triple; not-found is an error value, not a failure.
	FindItem(ctx context.Context, tenderID id.ID, materialRef string, kind material.Kind) (*Item, error)
	// UpdateItem persists an item with an optimistic version check.
	UpdateItem(ctx context.Context, item *Item) error
	// DeleteItem removes an item by storage key. Deleting an absent item is
	// not an error.
	DeleteItem(ctx context.Context, itemID id.ID) error
	// ListItems returns a tender's items in position order.
	ListItems(ctx context.Context, tenderID id.ID) ([]*Item, error)
	// NextItemPosition returns the next free position for a tender.
	NextItemPosition(ctx context.Context, tenderID id.ID) (int, error)
}

// ListFilter for filtering tenders.
type ListFilter struct {
	domain.ListFilter

	Status     *Status
	CompanyRef *string
	DateFrom   *time.Time
	DateTo     *time.Time
}
