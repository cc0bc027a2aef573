package reports

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tenderdesk/internal/core/types"
	"tenderdesk/internal/domain/documents/tender"
)

type fakeReportRepo struct {
	summaryFilter   TenderSummaryFilter
	freshnessFilter PriceFreshnessFilter
	exportRows      []ExportRow
}

func (f *fakeReportRepo) GetTenderSummary(ctx context.Context, filter TenderSummaryFilter) (*TenderSummaryReport, error) {
	f.summaryFilter = filter
	return &TenderSummaryReport{}, nil
}

func (f *fakeReportRepo) GetPriceFreshness(ctx context.Context, filter PriceFreshnessFilter) (*PriceFreshnessReport, error) {
	f.freshnessFilter = filter
	return &PriceFreshnessReport{StaleAfter: filter.StaleAfter}, nil
}

func (f *fakeReportRepo) GetExportRows(ctx context.Context, tenderRef string) ([]ExportRow, error) {
	return f.exportRows, nil
}

type fakeTenderRepo struct {
	tender.Repository
	doc *tender.Tender
}

func (f *fakeTenderRepo) GetByRefID(ctx context.Context, refID string) (*tender.Tender, error) {
	return f.doc, nil
}

func TestGetTenderSummary_PaginationDefaults(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := NewService(repo, nil)

	_, err := svc.GetTenderSummary(context.Background(), TenderSummaryFilter{})
	require.NoError(t, err)
	assert.Equal(t, 100, repo.summaryFilter.Limit)

	_, err = svc.GetTenderSummary(context.Background(), TenderSummaryFilter{Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, 1000, repo.summaryFilter.Limit)
}

func TestGetTenderSummary_RejectsInvertedPeriod(t *testing.T) {
	svc := NewService(&fakeReportRepo{}, nil)

	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, -1, 0)

	_, err := svc.GetTenderSummary(context.Background(), TenderSummaryFilter{
		FromDate: &from,
		ToDate:   &to,
	})
	assert.Error(t, err)
}

func TestGetPriceFreshness_DefaultStaleAfter(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := NewService(repo, nil)

	report, err := svc.GetPriceFreshness(context.Background(), PriceFreshnessFilter{})
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, report.StaleAfter)
	assert.Equal(t, 24*time.Hour, repo.freshnessFilter.StaleAfter)
}

func TestExportTenderXLSX(t *testing.T) {
	doc := tender.NewTender("Warehouse refit", "CO-test")
	doc.Number = "TN-000042"
	doc.TotalAmount = types.MustMoney("250")

	repo := &fakeReportRepo{
		exportRows: []ExportRow{
			{
				Position:     1,
				MaterialName: "Steel rod",
				MaterialKind: "raw_material",
				SupplierName: "Northline",
				Quantity:     types.MustQuantity("10"),
				UnitPrice:    types.MustMoney("25"),
				TotalPrice:   types.MustMoney("250"),
			},
		},
	}

	svc := NewService(repo, &fakeTenderRepo{doc: doc})

	data, fileName, err := svc.ExportTenderXLSX(context.Background(), doc.RefID)
	require.NoError(t, err)
	assert.Equal(t, "TN-000042-items.xlsx", fileName)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	number, err := f.GetCellValue("Items", "A1")
	require.NoError(t, err)
	assert.Equal(t, "TN-000042", number)

	name, err := f.GetCellValue("Items", "B5")
	require.NoError(t, err)
	assert.Equal(t, "Steel rod", name)
}
