package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tenderdesk/internal/core/apperror"
	"tenderdesk/internal/domain/catalogs/company"
	"tenderdesk/internal/infrastructure/http/v1/dto"
)

// CompanyHandler handles company-specific endpoints on top of the generic
// catalog handlers.
type CompanyHandler struct {
	*CatalogHandler[*company.Company, dto.CreateCompanyRequest, dto.UpdateCompanyRequest]
	service *company.Service
}

// NewCompanyHandler creates a company handler.
func NewCompanyHandler(base *BaseHandler, service *company.Service) *CompanyHandler {
	return &CompanyHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*company.Company, dto.CreateCompanyRequest, dto.UpdateCompanyRequest]{
			Service:    service.CatalogService,
			EntityName: "company",
			MapCreateDTO: func(req dto.CreateCompanyRequest) *company.Company {
				return req.ToCompany()
			},
			MapUpdateDTO: func(req dto.UpdateCompanyRequest, existing *company.Company) *company.Company {
				return req.ApplyTo(existing)
			},
			MapToDTO: func(c *company.Company) any {
				return dto.FromCompany(c)
			},
		}),
		service: service,
	}
}

// FindByTaxNumber handles GET /companies/by-tax-number/:taxNumber
func (h *CompanyHandler) FindByTaxNumber(c *gin.Context) {
	taxNumber := c.Param("taxNumber")
	if taxNumber == "" {
		h.Error(c, apperror.NewValidation("tax number is required"))
		return
	}

	found, err := h.service.FindByTaxNumber(c.Request.Context(), taxNumber)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromCompany(found))
}
