package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"tenderdesk/internal/domain/documents/tender"
)

// Service provides report generation operations.
type Service struct {
	repo    Repository
	tenders tender.Repository
}

// NewService creates a new reports service.
func NewService(repo Repository, tenders tender.Repository) *Service {
	return &Service{repo: repo, tenders: tenders}
}

// GetTenderSummary generates the tender summary report.
func (s *Service) GetTenderSummary(ctx context.Context, filter TenderSummaryFilter) (*TenderSummaryReport, error) {
	if filter.FromDate != nil && filter.ToDate != nil && filter.FromDate.After(*filter.ToDate) {
		return nil, fmt.Errorf("fromDate must be before toDate")
	}

	// Set default pagination
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}

	report, err := s.repo.GetTenderSummary(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get tender summary report: %w", err)
	}

	return report, nil
}

// GetPriceFreshness generates the stale price report.
func (s *Service) GetPriceFreshness(ctx context.Context, filter PriceFreshnessFilter) (*PriceFreshnessReport, error) {
	if filter.StaleAfter <= 0 {
		filter.StaleAfter = 24 * time.Hour
	}

	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}

	report, err := s.repo.GetPriceFreshness(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get price freshness report: %w", err)
	}

	return report, nil
}

var exportHeaders = []string{
	"#", "Material", "Category", "Unit", "Kind", "Supplier", "Quantity", "Unit Price", "Total",
}

// ExportTenderXLSX renders a tender's line items as an xlsx workbook.
func (s *Service) ExportTenderXLSX(ctx context.Context, tenderRef string) ([]byte, string, error) {
	doc, err := s.tenders.GetByRefID(ctx, tenderRef)
	if err != nil {
		return nil, "", err
	}

	rows, err := s.repo.GetExportRows(ctx, tenderRef)
	if err != nil {
		return nil, "", fmt.Errorf("get export rows: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Items"
	f.SetSheetName("Sheet1", sheet)

	// Title block
	f.SetCellValue(sheet, "A1", doc.Number)
	f.SetCellValue(sheet, "B1", doc.Title)
	f.SetCellValue(sheet, "A2", "Status")
	f.SetCellValue(sheet, "B2", string(doc.Status))

	headerRow := 4
	for i, h := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, "", fmt.Errorf("header cell: %w", err)
		}
		f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := headerRow + 1 + i
		values := []any{
			row.Position,
			row.MaterialName,
			row.MaterialCategory,
			row.MaterialUnit,
			row.MaterialKind,
			row.SupplierName,
			row.Quantity.InexactFloat64(),
			row.UnitPrice.InexactFloat64(),
			row.TotalPrice.InexactFloat64(),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, r)
			if err != nil {
				return nil, "", fmt.Errorf("data cell: %w", err)
			}
			f.SetCellValue(sheet, cell, v)
		}
	}

	// Totals line
	totalRow := headerRow + len(rows) + 2
	f.SetCellValue(sheet, fmt.Sprintf("F%d", totalRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("I%d", totalRow), doc.TotalAmount.InexactFloat64())

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	fileName := fmt.Sprintf("%s-items.xlsx", doc.Number)
	return buf.Bytes(), fileName, nil
}
