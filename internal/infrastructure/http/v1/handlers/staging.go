package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tenderdesk/internal/core/apperror"
	"tenderdesk/internal/core/id"
	"tenderdesk/internal/domain/catalogs/material"
	"tenderdesk/internal/domain/staging"
	"tenderdesk/internal/infrastructure/http/v1/dto"
)

// StagingHandler handles the pre-persist staging buffer of tender line
// items. Buffers are scoped per session and tender, so two editors of the
// same tender do not see each other's drafts.
type StagingHandler struct {
	*BaseHandler
	guard     *staging.Guard
	materials *material.Registry
}

// NewStagingHandler creates a staging handler.
func NewStagingHandler(base *BaseHandler, guard *staging.Guard, materials *material.Registry) *StagingHandler {
	return &StagingHandler{
		BaseHandler: base,
		guard:       guard,
		materials:   materials,
	}
}

// bufferName derives the buffer key from the caller's session and the tender
// path parameter.
func (h *StagingHandler) bufferName(c *gin.Context) (string, error) {
	sessionID := h.GetSessionID(c)
	if sessionID == "" {
		return "", apperror.NewValidation("session is required for staging")
	}
	return fmt.Sprintf("staging:%s:%s", sessionID, c.Param("id")), nil
}

// Stage handles POST /tenders/:id/staging - stages a candidate line item.
// A second entry for the same material reference is rejected with a conflict.
func (h *StagingHandler) Stage(c *gin.Context) {
	ctx := c.Request.Context()

	buffer, err := h.bufferName(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.StageItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if !req.Quantity.IsPositive() {
		h.Error(c, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity"))
		return
	}

	m, err := h.materials.Resolve(ctx, req.MaterialKindOf(), req.MaterialRef, "")
	if err != nil {
		h.Error(c, err)
		return
	}

	price := material.ResolvePrice(m)
	entry := staging.Entry{
		Key:          id.New().String(),
		MaterialRef:  m.RefID,
		MaterialKind: m.Kind,
		MaterialName: m.Name,
		Quantity:     req.Quantity,
		UnitPrice:    price.UnitPrice,
		StagedAt:     time.Now().UTC(),
	}

	if err := h.guard.TryStage(ctx, buffer, entry); err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromStagedEntry(entry)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// List handles GET /tenders/:id/staging - live entries of the caller's
// buffer.
func (h *StagingHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	buffer, err := h.bufferName(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	entries, err := h.guard.List(ctx, buffer)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StagedEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = dto.FromStagedEntry(e)
	}

	c.JSON(http.StatusOK, dto.StagedListResponse{Items: items, Count: len(items)})
}

// Remove handles DELETE /tenders/:id/staging/:key
func (h *StagingHandler) Remove(c *gin.Context) {
	ctx := c.Request.Context()

	buffer, err := h.bufferName(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.guard.Remove(ctx, buffer, c.Param("key")); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Clear handles DELETE /tenders/:id/staging - drops the whole buffer, used
// after the staged items were promoted to real line items.
func (h *StagingHandler) Clear(c *gin.Context) {
	ctx := c.Request.Context()

	buffer, err := h.bufferName(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.guard.Clear(ctx, buffer); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
