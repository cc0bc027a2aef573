package reports

import (
	"context"
)

// Repository defines report data access interface.
type Repository interface {
	GetTenderSummary(ctx context.Context, filter TenderSummaryFilter) (*TenderSummaryReport, error)
	GetPriceFreshness(ctx context.Context, filter PriceFreshnessFilter) (*PriceFreshnessReport, error)

	// GetExportRows returns a tender's items in position order for export.
	GetExportRows(ctx context.Context, tenderRef string) ([]ExportRow, error)
}
