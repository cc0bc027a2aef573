// Package report_repo provides PostgreSQL implementations for report
// repositories. Reports read across document and catalog tables, so they
// bypass the generic repos and run hand-written SQL.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"tenderdesk/internal/core/types"
	"tenderdesk/internal/domain/reports"
	"tenderdesk/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

// GetTenderSummary generates the tender summary with company names joined in.
func (r *ReportRepo) GetTenderSummary(ctx context.Context, filter reports.TenderSummaryFilter) (*reports.TenderSummaryReport, error) {
	query := `
		SELECT
			t.ref_id,
			t.number,
			t.title,
			t.status,
			t.company_ref,
			COALESCE(c.name, '') AS company_name,
			t.date,
			t.item_count,
			t.total_amount
		FROM doc_tenders t
		LEFT JOIN cat_companies c ON c.ref_id = t.company_ref
		WHERE t.deletion_mark = false
	`
	args := []any{}
	argIndex := 1

	if filter.FromDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIndex)
		args = append(args, *filter.FromDate)
		argIndex++
	}
	if filter.ToDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIndex)
		args = append(args, *filter.ToDate)
		argIndex++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND t.status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}
	if filter.CompanyRef != nil {
		query += fmt.Sprintf(" AND t.company_ref = $%d", argIndex)
		args = append(args, *filter.CompanyRef)
		argIndex++
	}

	query += " ORDER BY t.date DESC, t.number DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	var items []reports.TenderSummaryItem
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, query, args...); err != nil {
		return nil, fmt.Errorf("tender summary report: %w", err)
	}

	total := types.Zero()
	for _, item := range items {
		total = total.Add(item.TotalAmount)
	}

	return &reports.TenderSummaryReport{
		Items:       items,
		TotalCount:  len(items),
		TotalAmount: total,
	}, nil
}

// GetPriceFreshness lists line items whose cached price is older than the
// threshold. Items that never resolved a price sort first.
func (r *ReportRepo) GetPriceFreshness(ctx context.Context, filter reports.PriceFreshnessFilter) (*reports.PriceFreshnessReport, error) {
	cutoff := time.Now().UTC().Add(-filter.StaleAfter)

	query := `
		SELECT
			t.ref_id AS tender_ref,
			t.number AS tender_number,
			i.ref_id AS item_ref,
			i.position,
			i.material_ref,
			i.material_name,
			i.unit_price,
			i.total_price,
			i.last_price_update,
			i.quantity
		FROM doc_tender_items i
		JOIN doc_tenders t ON t.id = i.tender_id
		WHERE t.deletion_mark = false
		  AND (i.last_price_update IS NULL OR i.last_price_update < $1)
	`
	args := []any{cutoff}
	argIndex := 2

	if filter.TenderRef != nil {
		query += fmt.Sprintf(" AND t.ref_id = $%d", argIndex)
		args = append(args, *filter.TenderRef)
		argIndex++
	}

	query += " ORDER BY i.last_price_update ASC NULLS FIRST, t.number, i.position"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	var items []reports.PriceFreshnessItem
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, query, args...); err != nil {
		return nil, fmt.Errorf("price freshness report: %w", err)
	}

	return &reports.PriceFreshnessReport{
		StaleAfter: filter.StaleAfter,
		Items:      items,
		TotalCount: len(items),
	}, nil
}

// GetExportRows returns a tender's items in position order for export.
func (r *ReportRepo) GetExportRows(ctx context.Context, tenderRef string) ([]reports.ExportRow, error) {
	query := `
		SELECT
			i.position,
			i.material_name,
			i.material_category,
			i.material_unit,
			i.material_kind,
			i.supplier_name,
			i.quantity,
			i.unit_price,
			i.total_price
		FROM doc_tender_items i
		JOIN doc_tenders t ON t.id = i.tender_id
		WHERE t.ref_id = $1
		ORDER BY i.position
	`

	var rows []reports.ExportRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, query, tenderRef); err != nil {
		return nil, fmt.Errorf("export rows: %w", err)
	}

	return rows, nil
}

var _ reports.Repository = (*ReportRepo)(nil)
