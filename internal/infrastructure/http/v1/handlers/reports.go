package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"tenderdesk/internal/domain/reports"
	"tenderdesk/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles report endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// TenderSummary handles GET /reports/tender-summary
func (h *ReportsHandler) TenderSummary(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.TenderSummaryQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.GetTenderSummary(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// PriceFreshness handles GET /reports/price-freshness - line items whose
// cached price has not been re-resolved recently.
func (h *ReportsHandler) PriceFreshness(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.PriceFreshnessQuery
	if !h.BindQuery(c, &query) {
		return
	}

	report, err := h.service.GetPriceFreshness(ctx, query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportTender handles GET /reports/tenders/:id/export - streams the
// tender's line items as a spreadsheet.
func (h *ReportsHandler) ExportTender(c *gin.Context) {
	ctx := c.Request.Context()

	data, fileName, err := h.service.ExportTenderXLSX(ctx, c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
