package dto

import (
	"time"

	"tenderdesk/internal/core/apperror"
	"tenderdesk/internal/domain/documents/tender"
	"tenderdesk/internal/domain/reports"
)

// TenderSummaryQuery binds query parameters of the tender summary report.
type TenderSummaryQuery struct {
	FromDate   string `form:"fromDate"`
	ToDate     string `form:"toDate"`
	Status     string `form:"status"`
	CompanyRef string `form:"companyRef"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}

// ToFilter converts the query to a report filter.
func (q TenderSummaryQuery) ToFilter() (reports.TenderSummaryFilter, error) {
	f := reports.TenderSummaryFilter{
		Limit:  q.Limit,
		Offset: q.Offset,
	}

	if q.FromDate != "" {
		t, err := time.Parse("2006-01-02", q.FromDate)
		if err != nil {
			return f, apperror.NewValidation("invalid fromDate format (YYYY-MM-DD expected)")
		}
		f.FromDate = &t
	}
	if q.ToDate != "" {
		t, err := time.Parse("2006-01-02", q.ToDate)
		if err != nil {
			return f, apperror.NewValidation("invalid toDate format (YYYY-MM-DD expected)")
		}
		f.ToDate = &t
	}
	if q.Status != "" {
		s := tender.Status(q.Status)
		f.Status = &s
	}
	if q.CompanyRef != "" {
		f.CompanyRef = &q.CompanyRef
	}

	return f, nil
}

// PriceFreshnessQuery binds query parameters of the price freshness report.
type PriceFreshnessQuery struct {
	// StaleAfterHours marks items whose price is older than this many hours.
	StaleAfterHours int    `form:"staleAfterHours"`
	TenderRef       string `form:"tenderRef"`
	Limit           int    `form:"limit"`
	Offset          int    `form:"offset"`
}

// ToFilter converts the query to a report filter.
func (q PriceFreshnessQuery) ToFilter() reports.PriceFreshnessFilter {
	f := reports.PriceFreshnessFilter{
		StaleAfter: time.Duration(q.StaleAfterHours) * time.Hour,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	if q.TenderRef != "" {
		f.TenderRef = &q.TenderRef
	}
	return f
}
