package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tenderdesk/internal/core/apperror"
	"tenderdesk/internal/domain/catalogs/employee"
	"tenderdesk/internal/infrastructure/http/v1/dto"
)

// EmployeeHandler handles employee-specific endpoints on top of the generic
// catalog handlers.
type EmployeeHandler struct {
	*CatalogHandler[*employee.Employee, dto.CreateEmployeeRequest, dto.UpdateEmployeeRequest]
	service *employee.Service
}

// NewEmployeeHandler creates an employee handler.
func NewEmployeeHandler(base *BaseHandler, service *employee.Service) *EmployeeHandler {
	return &EmployeeHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*employee.Employee, dto.CreateEmployeeRequest, dto.UpdateEmployeeRequest]{
			Service:    service.CatalogService,
			EntityName: "employee",
			MapCreateDTO: func(req dto.CreateEmployeeRequest) *employee.Employee {
				return req.ToEmployee()
			},
			MapUpdateDTO: func(req dto.UpdateEmployeeRequest, existing *employee.Employee) *employee.Employee {
				return req.ApplyTo(existing)
			},
			MapToDTO: func(e *employee.Employee) any {
				return dto.FromEmployee(e)
			},
		}),
		service: service,
	}
}

// ListByCompany handles GET /employees/by-company/:companyRef
func (h *EmployeeHandler) ListByCompany(c *gin.Context) {
	companyRef := c.Param("companyRef")
	if companyRef == "" {
		h.Error(c, apperror.NewValidation("company reference is required"))
		return
	}

	items, err := h.service.ListByCompany(c.Request.Context(), companyRef)
	if err != nil {
		h.Error(c, err)
		return
	}

	responses := make([]dto.EmployeeResponse, len(items))
	for i, e := range items {
		responses[i] = dto.FromEmployee(e)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      responses,
		TotalCount: int64(len(responses)),
		Limit:      len(responses),
	})
}
