package dto

import (
	"tenderdesk/internal/core/entity"
	"tenderdesk/internal/domain/catalogs/employee"
)

// EmployeeResponse contains employee fields.
type EmployeeResponse struct {
	CatalogResponse
	CompanyRef string  `json:"companyRef"`
	Position   *string `json:"position,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty"`
}

// FromEmployee maps an employee to its response DTO.
func FromEmployee(e *employee.Employee) EmployeeResponse {
	return EmployeeResponse{
		CatalogResponse: FromCatalog(e.Catalog),
		CompanyRef:      e.CompanyRef,
		Position:        e.Position,
		Phone:           e.Phone,
		Email:           e.Email,
	}
}

// CreateEmployeeRequest for creating employees.
type CreateEmployeeRequest struct {
	Code       string            `json:"code"`
	Name       string            `json:"name" binding:"required"`
	CompanyRef string            `json:"companyRef" binding:"required"`
	Position   *string           `json:"position"`
	Phone      *string           `json:"phone"`
	Email      *string           `json:"email"`
	Attributes entity.Attributes `json:"attributes"`
}

// ToEmployee maps the request to a new domain entity.
func (r CreateEmployeeRequest) ToEmployee() *employee.Employee {
	e := employee.NewEmployee(r.Code, r.Name, r.CompanyRef)
	e.Position = r.Position
	e.Phone = r.Phone
	e.Email = r.Email
	e.Attributes = r.Attributes
	return e
}

// UpdateEmployeeRequest for updating employees. Nil fields stay untouched.
type UpdateEmployeeRequest struct {
	Name       *string           `json:"name"`
	CompanyRef *string           `json:"companyRef"`
	Position   *string           `json:"position"`
	Phone      *string           `json:"phone"`
	Email      *string           `json:"email"`
	Attributes entity.Attributes `json:"attributes"`
	Version    int               `json:"version" binding:"required,min=1"`
}

// ApplyTo merges the request onto an existing entity.
func (r UpdateEmployeeRequest) ApplyTo(e *employee.Employee) *employee.Employee {
	if r.Name != nil {
		e.Name = *r.Name
	}
	if r.CompanyRef != nil {
		e.CompanyRef = *r.CompanyRef
	}
	if r.Position != nil {
		e.Position = r.Position
	}
	if r.Phone != nil {
		e.Phone = r.Phone
	}
	if r.Email != nil {
		e.Email = r.Email
	}
	if r.Attributes != nil {
		e.Attributes = r.Attributes
	}
	e.Version = r.Version
	return e
}
