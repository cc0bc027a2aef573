package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tenderdesk/internal/domain/catalogs/material"
	"tenderdesk/internal/infrastructure/http/v1/dto"
)

// MaterialHandler handles one of the four material catalogs. The router
// mounts one instance per kind; the handler code is kind-agnostic.
type MaterialHandler struct {
	*CatalogHandler[*material.Material, dto.CreateMaterialRequest, dto.UpdateMaterialRequest]
	service *material.Service
}

// NewMaterialHandler creates a material handler for the service's kind.
func NewMaterialHandler(base *BaseHandler, service *material.Service) *MaterialHandler {
	kind := service.Kind()
	return &MaterialHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*material.Material, dto.CreateMaterialRequest, dto.UpdateMaterialRequest]{
			Service:    service.CatalogService,
			EntityName: string(kind),
			MapCreateDTO: func(req dto.CreateMaterialRequest) *material.Material {
				return req.ToMaterial(kind)
			},
			MapUpdateDTO: func(req dto.UpdateMaterialRequest, existing *material.Material) *material.Material {
				return req.ApplyTo(existing)
			},
			MapToDTO: func(m *material.Material) any {
				m.Kind = kind
				return dto.FromMaterial(m)
			},
		}),
		service: service,
	}
}

// ListActive handles GET /{kind}/active - materials that participate in
// pricing refresh.
func (h *MaterialHandler) ListActive(c *gin.Context) {
	items, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	responses := make([]dto.MaterialResponse, len(items))
	for i, m := range items {
		responses[i] = dto.FromMaterial(m)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      responses,
		TotalCount: int64(len(responses)),
		Limit:      len(responses),
	})
}
