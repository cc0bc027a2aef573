package dto

import (
	"tenderdesk/internal/core/entity"
	"tenderdesk/internal/core/types"
	"tenderdesk/internal/domain/catalogs/material"
)

// MaterialResponse contains material fields. The same shape serves all four
// material catalogs; Kind tells them apart.
type MaterialResponse struct {
	CatalogResponse
	Kind         string                `json:"kind"`
	Category     string                `json:"category"`
	Unit         string                `json:"unit"`
	BasePrice    types.Money           `json:"basePrice"`
	SupplierName string                `json:"supplierName,omitempty"`
	Manufacturer string                `json:"manufacturer,omitempty"`
	Active       bool                  `json:"active"`
	Quotes       []material.PriceQuote `json:"quotes,omitempty"`
}

// FromMaterial maps a material to its response DTO.
func FromMaterial(m *material.Material) MaterialResponse {
	return MaterialResponse{
		CatalogResponse: FromCatalog(m.Catalog),
		Kind:            string(m.Kind),
		Category:        m.Category,
		Unit:            m.Unit,
		BasePrice:       m.BasePrice,
		SupplierName:    m.SupplierName,
		Manufacturer:    m.Manufacturer,
		Active:          m.Active,
		Quotes:          m.Quotes,
	}
}

// CreateMaterialRequest for creating materials in any of the four catalogs.
type CreateMaterialRequest struct {
	Code         string                `json:"code"`
	Name         string                `json:"name" binding:"required"`
	Category     string                `json:"category"`
	Unit         string                `json:"unit"`
	BasePrice    types.Money           `json:"basePrice"`
	SupplierName string                `json:"supplierName"`
	Manufacturer string                `json:"manufacturer"`
	Active       *bool                 `json:"active"`
	Quotes       []material.PriceQuote `json:"quotes"`
	Attributes   entity.Attributes     `json:"attributes"`
}

// ToMaterial maps the request to a new domain entity of the given kind.
func (r CreateMaterialRequest) ToMaterial(kind material.Kind) *material.Material {
	m := material.New(kind, r.Code, r.Name)
	m.Category = r.Category
	m.Unit = r.Unit
	m.BasePrice = r.BasePrice
	m.SupplierName = r.SupplierName
	m.Manufacturer = r.Manufacturer
	if r.Active != nil {
		m.Active = *r.Active
	}
	m.Quotes = r.Quotes
	m.Attributes = r.Attributes
	return m
}

// UpdateMaterialRequest for updating materials. Nil fields stay untouched.
type UpdateMaterialRequest struct {
	Name         *string                `json:"name"`
	Category     *string                `json:"category"`
	Unit         *string                `json:"unit"`
	BasePrice    *types.Money           `json:"basePrice"`
	SupplierName *string                `json:"supplierName"`
	Manufacturer *string                `json:"manufacturer"`
	Active       *bool                  `json:"active"`
	Quotes       *[]material.PriceQuote `json:"quotes"`
	Attributes   entity.Attributes      `json:"attributes"`
	Version      int                    `json:"version" binding:"required,min=1"`
}

// ApplyTo merges the request onto an existing entity.
func (r UpdateMaterialRequest) ApplyTo(m *material.Material) *material.Material {
	if r.Name != nil {
		m.Name = *r.Name
	}
	if r.Category != nil {
		m.Category = *r.Category
	}
	if r.Unit != nil {
		m.Unit = *r.Unit
	}
	if r.BasePrice != nil {
		m.BasePrice = *r.BasePrice
	}
	if r.SupplierName != nil {
		m.SupplierName = *r.SupplierName
	}
	if r.Manufacturer != nil {
		m.Manufacturer = *r.Manufacturer
	}
	if r.Active != nil {
		m.Active = *r.Active
	}
	if r.Quotes != nil {
		m.Quotes = *r.Quotes
	}
	if r.Attributes != nil {
		m.Attributes = r.Attributes
	}
	m.Version = r.Version
	return m
}
