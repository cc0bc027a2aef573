// Package reports provides report generation services.
package reports

import (
	"time"

	"tenderdesk/internal/core/types"
	"tenderdesk/internal/domain/documents/tender"
)

// --- Tender Summary Report ---

// TenderSummaryFilter defines the filter for the tender summary report.
type TenderSummaryFilter struct {
	// Period (optional; open-ended when nil)
	FromDate *time.Time
	ToDate   *time.Time

	// Filters
	Status     *tender.Status
	CompanyRef *string

	// Pagination
	Limit  int
	Offset int
}

// TenderSummaryItem is one row of the tender summary report.
type TenderSummaryItem struct {
	RefID       string        `db:"ref_id" json:"refId"`
	Number      string        `db:"number" json:"number"`
	Title       string        `db:"title" json:"title"`
	Status      tender.Status `db:"status" json:"status"`
	CompanyRef  string        `db:"company_ref" json:"companyRef"`
	CompanyName string        `db:"company_name" json:"companyName"`
	Date        time.Time     `db:"date" json:"date"`
	ItemCount   int           `db:"item_count" json:"itemCount"`
	TotalAmount types.Money   `db:"total_amount" json:"totalAmount"`
}

// TenderSummaryReport is the full tender summary result.
type TenderSummaryReport struct {
	Items      []TenderSummaryItem `json:"items"`
	TotalCount int                 `json:"totalCount"`

	// Summary
	TotalAmount types.Money `json:"totalAmount"`
}

// --- Price Freshness Report ---

// PriceFreshnessFilter defines the filter for the price freshness report.
// It surfaces line items whose cached price has not been re-resolved
// recently, so operators know which tenders need a bulk refresh.
type PriceFreshnessFilter struct {
	// StaleAfter marks items whose last price resolution is older than this
	// (defaults to 24h). Items that never resolved count as stale.
	StaleAfter time.Duration

	// TenderRef narrows the report to one tender, optional
	TenderRef *string

	// Pagination
	Limit  int
	Offset int
}

// PriceFreshnessItem is one stale line item.
type PriceFreshnessItem struct {
	TenderRef       string         `db:"tender_ref" json:"tenderRef"`
	TenderNumber    string         `db:"tender_number" json:"tenderNumber"`
	ItemRef         string         `db:"item_ref" json:"itemRef"`
	Position        int            `db:"position" json:"position"`
	MaterialRef     string         `db:"material_ref" json:"materialRef"`
	MaterialName    string         `db:"material_name" json:"materialName"`
	UnitPrice       types.Money    `db:"unit_price" json:"unitPrice"`
	TotalPrice      types.Money    `db:"total_price" json:"totalPrice"`
	LastPriceUpdate *time.Time     `db:"last_price_update" json:"lastPriceUpdate,omitempty"`
	Quantity        types.Quantity `db:"quantity" json:"quantity"`
}

// PriceFreshnessReport is the full price freshness result.
type PriceFreshnessReport struct {
	StaleAfter time.Duration        `json:"staleAfterSeconds"`
	Items      []PriceFreshnessItem `json:"items"`
	TotalCount int                  `json:"totalCount"`
}

// --- Tender Item Export ---

// ExportRow is one line of a tender's spreadsheet export.
type ExportRow struct {
	Position         int            `db:"position"`
	MaterialName     string         `db:"material_name"`
	MaterialCategory string         `db:"material_category"`
	MaterialUnit     string         `db:"material_unit"`
	MaterialKind     string         `db:"material_kind"`
	SupplierName     string         `db:"supplier_name"`
	Quantity         types.Quantity `db:"quantity"`
	UnitPrice        types.Money    `db:"unit_price"`
	TotalPrice       types.Money    `db:"total_price"`
}
