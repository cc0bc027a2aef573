package dto

import (
	"tenderdesk/internal/core/entity"
	"tenderdesk/internal/domain/catalogs/company"
)

// CompanyResponse contains company fields.
type CompanyResponse struct {
	CatalogResponse
	Type          string  `json:"type"`
	TaxNumber     *string `json:"taxNumber,omitempty"`
	Address       *string `json:"address,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	Comment       *string `json:"comment,omitempty"`
}

// FromCompany maps a company to its response DTO.
func FromCompany(c *company.Company) CompanyResponse {
	return CompanyResponse{
		CatalogResponse: FromCatalog(c.Catalog),
		Type:            string(c.Type),
		TaxNumber:       c.TaxNumber,
		Address:         c.Address,
		Phone:           c.Phone,
		Email:           c.Email,
		ContactPerson:   c.ContactPerson,
		Comment:         c.Comment,
	}
}

// CreateCompanyRequest for creating companies.
type CreateCompanyRequest struct {
	Code          string            `json:"code"`
	Name          string            `json:"name" binding:"required"`
	Type          string            `json:"type" binding:"required,oneof=buyer supplier both"`
	TaxNumber     *string           `json:"taxNumber"`
	Address       *string           `json:"address"`
	Phone         *string           `json:"phone"`
	Email         *string           `json:"email"`
	ContactPerson *string           `json:"contactPerson"`
	Comment       *string           `json:"comment"`
	Attributes    entity.Attributes `json:"attributes"`
}

// ToCompany maps the request to a new domain entity.
func (r CreateCompanyRequest) ToCompany() *company.Company {
	c := company.NewCompany(r.Code, r.Name, company.CompanyType(r.Type))
	c.TaxNumber = r.TaxNumber
	c.Address = r.Address
	c.Phone = r.Phone
	c.Email = r.Email
	c.ContactPerson = r.ContactPerson
	c.Comment = r.Comment
	c.Attributes = r.Attributes
	return c
}

// UpdateCompanyRequest for updating companies. Nil fields stay untouched.
type UpdateCompanyRequest struct {
	Name          *string           `json:"name"`
	Type          *string           `json:"type"`
	TaxNumber     *string           `json:"taxNumber"`
	Address       *string           `json:"address"`
	Phone         *string           `json:"phone"`
	Email         *string           `json:"email"`
	ContactPerson *string           `json:"contactPerson"`
	Comment       *string           `json:"comment"`
	Attributes    entity.Attributes `json:"attributes"`
	Version       int               `json:"version" binding:"required,min=1"`
}

// ApplyTo merges the request onto an existing entity.
func (r UpdateCompanyRequest) ApplyTo(c *company.Company) *company.Company {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Type != nil {
		c.Type = company.CompanyType(*r.Type)
	}
	if r.TaxNumber != nil {
		c.TaxNumber = r.TaxNumber
	}
	if r.Address != nil {
		c.Address = r.Address
	}
	if r.Phone != nil {
		c.Phone = r.Phone
	}
	if r.Email != nil {
		c.Email = r.Email
	}
	if r.ContactPerson != nil {
		c.ContactPerson = r.ContactPerson
	}
	if r.Comment != nil {
		c.Comment = r.Comment
	}
	if r.Attributes != nil {
		c.Attributes = r.Attributes
	}
	c.Version = r.Version
	return c
}
