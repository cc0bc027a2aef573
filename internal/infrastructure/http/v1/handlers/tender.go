package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tenderdesk/internal/core/apperror"
	"tenderdesk/internal/core/id"
	"tenderdesk/internal/domain"
	"tenderdesk/internal/domain/documents/tender"
	"tenderdesk/internal/infrastructure/http/v1/dto"
	"tenderdesk/internal/infrastructure/storage/postgres"
)

// maxAttachmentSize bounds uploaded file bytes (20 MiB).
const maxAttachmentSize = 20 << 20

var errAuditDisabled = errors.New("audit journal is not configured")

// TenderHandler handles tender documents, their line items, attachments,
// and the audit history endpoint.
type TenderHandler struct {
	*BaseHandler
	service *tender.Service
	audit   *postgres.AuditService
}

// NewTenderHandler creates a tender handler. The audit service is optional.
func NewTenderHandler(base *BaseHandler, service *tender.Service, audit *postgres.AuditService) *TenderHandler {
	return &TenderHandler{
		BaseHandler: base,
		service:     service,
		audit:       audit,
	}
}

// List handles GET /tenders
func (h *TenderHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := tender.ListFilter{ListFilter: domain.DefaultListFilter()}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-date")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	var query dto.TenderSummaryQuery
	if !h.BindQuery(c, &query) {
		return
	}
	reportFilter, err := query.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}
	filter.Status = reportFilter.Status
	filter.CompanyRef = reportFilter.CompanyRef
	filter.DateFrom = reportFilter.FromDate
	filter.DateTo = reportFilter.ToDate

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.TenderResponse, len(result.Items))
	for i, t := range result.Items {
		items[i] = dto.FromTender(t)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// resolve looks up a tender by path parameter. Storage keys and reference
// identifiers are both accepted.
func (h *TenderHandler) resolve(c *gin.Context) (*tender.Tender, bool) {
	ctx := c.Request.Context()
	param := c.Param("id")

	if docID, err := id.Parse(param); err == nil {
		doc, err := h.service.GetByID(ctx, docID)
		if err != nil {
			h.Error(c, err)
			return nil, false
		}
		return doc, true
	}

	doc, err := h.service.GetByRefID(ctx, param)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}
	return doc, true
}

// Get handles GET /tenders/:id - returns the tender with items in position
// order.
func (h *TenderHandler) Get(c *gin.Context) {
	doc, ok := h.resolve(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.FromTender(doc))
}

// Create handles POST /tenders
func (h *TenderHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateTenderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToTender()
	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromTender(doc)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// Update handles PUT /tenders/:id - header fields only; items go through the
// item endpoints.
func (h *TenderHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	doc, ok := h.resolve(c)
	if !ok {
		return
	}

	var req dto.UpdateTenderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	updated := req.ApplyTo(doc)
	if err := h.service.Update(ctx, updated); err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromTender(updated)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /tenders/:id - removes the tender and its items.
func (h *TenderHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// SetStatus handles POST /tenders/:id/status
func (h *TenderHandler) SetStatus(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SetTenderStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.SetStatus(ctx, c.Param("id"), tender.Status(req.Status))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromTender(doc))
}

// --- Line items ---

// AddItem handles POST /tenders/:id/items - attaches a material; a duplicate
// add combines quantities on the existing item.
func (h *TenderHandler) AddItem(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AddTenderItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.service.AddItem(ctx, c.Param("id"), req.ToParams())
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromTenderItem(item)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// UpdateItemQuantity handles PUT /tenders/:id/items/:itemRef/quantity
func (h *TenderHandler) UpdateItemQuantity(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdateItemQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.service.UpdateItemQuantity(ctx, c.Param("itemRef"), req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromTenderItem(item))
}

// DeleteItem handles DELETE /tenders/:id/items/:itemRef - idempotent.
func (h *TenderHandler) DeleteItem(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.service.DeleteItem(ctx, c.Param("itemRef")); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// BulkRefresh handles POST /tenders/:id/refresh - re-resolves every item's
// price from the source catalogs.
func (h *TenderHandler) BulkRefresh(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.service.BulkRefresh(ctx, c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	if h.audit != nil {
		_ = h.audit.LogChange(ctx, "tender", c.Param("id"), postgres.AuditActionRefresh, map[string]any{
			"updated": len(result.Updated),
			"skipped": len(result.Skipped),
			"failed":  len(result.Failed),
		})
	}

	h.OK(c, dto.FromRefreshResult(result))
}

// --- Attachments ---

// AttachFile handles POST /tenders/:id/attachments (multipart form, field
// "file").
func (h *TenderHandler) AttachFile(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.Error(c, apperror.NewValidation("multipart file field 'file' is required"))
		return
	}
	if fileHeader.Size > maxAttachmentSize {
		h.Error(c, apperror.NewValidation("file too large").
			WithDetail("maxBytes", maxAttachmentSize))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAttachmentSize+1))
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	if len(data) > maxAttachmentSize {
		h.Error(c, apperror.NewValidation("file too large").
			WithDetail("maxBytes", maxAttachmentSize))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	att, err := h.service.AttachFile(ctx, c.Param("id"), fileHeader.Filename, contentType, data)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromAttachment(att)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// RemoveAttachment handles DELETE /tenders/:id/attachments?path=...
func (h *TenderHandler) RemoveAttachment(c *gin.Context) {
	ctx := c.Request.Context()

	path := c.Query("path")
	if path == "" {
		h.Error(c, apperror.NewValidation("query parameter 'path' is required"))
		return
	}

	if err := h.service.RemoveAttachment(ctx, c.Param("id"), path); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// --- Audit history ---

type auditEntryResponse struct {
	Action    string          `json:"action"`
	UserID    string          `json:"userId,omitempty"`
	UserEmail string          `json:"userEmail,omitempty"`
	Changes   json.RawMessage `json:"changes,omitempty"`
	CreatedAt string          `json:"createdAt"`
}

// History handles GET /tenders/:id/history - the change journal of one
// tender, newest first.
func (h *TenderHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	if h.audit == nil {
		h.Error(c, apperror.NewInternal(errAuditDisabled))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	entries, err := h.audit.GetEntityHistory(ctx, "tender", c.Param("id"), limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	responses := make([]auditEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = auditEntryResponse{
			Action:    string(e.Action),
			UserID:    e.UserID,
			UserEmail: e.UserEmail,
			Changes:   e.Changes,
			CreatedAt: e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      responses,
		TotalCount: int64(len(responses)),
		Limit:      limit,
	})
}
