package dto

import (
	"time"

	"tenderdesk/internal/core/entity"
	"tenderdesk/internal/core/types"
	"tenderdesk/internal/domain/catalogs/material"
	"tenderdesk/internal/domain/documents/tender"
)

// TenderResponse contains tender header fields plus optionally loaded items.
type TenderResponse struct {
	DocumentResponse
	Title       string               `json:"title"`
	Status      string               `json:"status"`
	Deadline    *time.Time           `json:"deadline,omitempty"`
	TotalAmount types.Money          `json:"totalAmount"`
	ItemCount   int                  `json:"itemCount"`
	Attachments []tender.Attachment  `json:"attachments,omitempty"`
	Items       []TenderItemResponse `json:"items,omitempty"`
}

// FromTender maps a tender to its response DTO.
func FromTender(t *tender.Tender) TenderResponse {
	resp := TenderResponse{
		DocumentResponse: FromDocument(t.Document),
		Title:            t.Title,
		Status:           string(t.Status),
		Deadline:         t.Deadline,
		TotalAmount:      t.TotalAmount,
		ItemCount:        t.ItemCount,
		Attachments:      t.Attachments,
	}
	if len(t.Items) > 0 {
		resp.Items = make([]TenderItemResponse, len(t.Items))
		for i, item := range t.Items {
			resp.Items[i] = FromTenderItem(item)
		}
	}
	return resp
}

// TenderItemResponse contains line item fields.
type TenderItemResponse struct {
	ID                string         `json:"id"`
	RefID             string         `json:"refId"`
	Position          int            `json:"position"`
	MaterialRef       string         `json:"materialRef"`
	MaterialKind      string         `json:"materialKind"`
	MaterialName      string         `json:"materialName"`
	MaterialCategory  string         `json:"materialCategory"`
	MaterialUnit      string         `json:"materialUnit"`
	SupplierName      string         `json:"supplierName"`
	SupplierFromQuote bool           `json:"supplierFromQuote"`
	SupplierQuoteID   string         `json:"supplierQuoteId,omitempty"`
	Quantity          types.Quantity `json:"quantity"`
	UnitPrice         types.Money    `json:"unitPrice"`
	TotalPrice        types.Money    `json:"totalPrice"`
	Version           int            `json:"version"`
	LastPriceUpdate   *time.Time     `json:"lastPriceUpdate,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// FromTenderItem maps a line item to its response DTO.
func FromTenderItem(i *tender.Item) TenderItemResponse {
	return TenderItemResponse{
		ID:                i.ID.String(),
		RefID:             i.RefID,
		Position:          i.Position,
		MaterialRef:       i.MaterialRef,
		MaterialKind:      string(i.MaterialKind),
		MaterialName:      i.MaterialName,
		MaterialCategory:  i.MaterialCategory,
		MaterialUnit:      i.MaterialUnit,
		SupplierName:      i.SupplierName,
		SupplierFromQuote: i.SupplierFromQuote,
		SupplierQuoteID:   i.SupplierQuoteID,
		Quantity:          i.Quantity,
		UnitPrice:         i.UnitPrice,
		TotalPrice:        i.TotalPrice,
		Version:           i.Version,
		LastPriceUpdate:   i.LastPriceUpdate,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

// CreateTenderRequest for creating tenders.
type CreateTenderRequest struct {
	Title      string            `json:"title" binding:"required"`
	CompanyRef string            `json:"companyRef" binding:"required"`
	Date       *time.Time        `json:"date"`
	Deadline   *time.Time        `json:"deadline"`
	Comment    string            `json:"comment"`
	Attributes entity.Attributes `json:"attributes"`
}

// ToTender maps the request to a new draft tender.
func (r CreateTenderRequest) ToTender() *tender.Tender {
	t := tender.NewTender(r.Title, r.CompanyRef)
	if r.Date != nil {
		t.Date = *r.Date
	}
	t.Deadline = r.Deadline
	t.Comment = r.Comment
	t.Attributes = r.Attributes
	return t
}

// UpdateTenderRequest for updating tender headers. Nil fields stay untouched.
// Status changes go through the dedicated status endpoint.
type UpdateTenderRequest struct {
	Title      *string           `json:"title"`
	CompanyRef *string           `json:"companyRef"`
	Date       *time.Time        `json:"date"`
	Deadline   *time.Time        `json:"deadline"`
	Comment    *string           `json:"comment"`
	Attributes entity.Attributes `json:"attributes"`
	Version    int               `json:"version" binding:"required,min=1"`
}

// ApplyTo merges the request onto an existing tender.
func (r UpdateTenderRequest) ApplyTo(t *tender.Tender) *tender.Tender {
	if r.Title != nil {
		t.Title = *r.Title
	}
	if r.CompanyRef != nil {
		t.CompanyRef = *r.CompanyRef
	}
	if r.Date != nil {
		t.Date = *r.Date
	}
	if r.Deadline != nil {
		t.Deadline = r.Deadline
	}
	if r.Comment != nil {
		t.Comment = *r.Comment
	}
	if r.Attributes != nil {
		t.Attributes = r.Attributes
	}
	t.Version = r.Version
	return t
}

// SetTenderStatusRequest for lifecycle transitions.
type SetTenderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft published closed"`
}

// AddTenderItemRequest attaches a material to a tender.
type AddTenderItemRequest struct {
	MaterialRef  string         `json:"materialRef"`
	MaterialKind string         `json:"materialKind" binding:"required"`
	Quantity     types.Quantity `json:"quantity" binding:"required"`

	// FallbackName enables exact-name lookup when the reference misses.
	FallbackName string `json:"fallbackName"`
}

// ToParams maps the request to domain parameters.
func (r AddTenderItemRequest) ToParams() tender.AddItemParams {
	return tender.AddItemParams{
		MaterialRef:  r.MaterialRef,
		MaterialKind: material.Kind(r.MaterialKind),
		Quantity:     r.Quantity,
		FallbackName: r.FallbackName,
	}
}

// UpdateItemQuantityRequest changes a line item's quantity.
type UpdateItemQuantityRequest struct {
	Quantity types.Quantity `json:"quantity" binding:"required"`
}

// RefreshResultResponse reports the outcome of a bulk price refresh.
type RefreshResultResponse struct {
	Updated []TenderItemResponse `json:"updated"`
	Skipped []tender.SkippedItem `json:"skipped"`
	Failed  []tender.FailedItem  `json:"failed"`
}

// FromRefreshResult maps a refresh outcome to its response DTO.
func FromRefreshResult(r *tender.RefreshResult) RefreshResultResponse {
	resp := RefreshResultResponse{
		Updated: make([]TenderItemResponse, len(r.Updated)),
		Skipped: r.Skipped,
		Failed:  r.Failed,
	}
	for i, item := range r.Updated {
		resp.Updated[i] = FromTenderItem(item)
	}
	if resp.Skipped == nil {
		resp.Skipped = []tender.SkippedItem{}
	}
	if resp.Failed == nil {
		resp.Failed = []tender.FailedItem{}
	}
	return resp
}

// AttachmentResponse for upload results.
type AttachmentResponse struct {
	FileName   string    `json:"fileName"`
	Path       string    `json:"path"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	UploadedBy string    `json:"uploadedBy,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// FromAttachment maps attachment metadata to its response DTO.
func FromAttachment(a *tender.Attachment) AttachmentResponse {
	return AttachmentResponse{
		FileName:   a.FileName,
		Path:       a.Path,
		URL:        a.URL,
		Size:       a.Size,
		UploadedBy: a.UploadedBy,
		UploadedAt: a.UploadedAt,
	}
}
