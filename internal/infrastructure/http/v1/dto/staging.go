package dto

import (
	"time"

	"tenderdesk/internal/core/types"
	"tenderdesk/internal/domain/catalogs/material"
	"tenderdesk/internal/domain/staging"
)

// StageItemRequest stages a candidate line item in the caller's buffer.
type StageItemRequest struct {
	MaterialRef  string         `json:"materialRef" binding:"required"`
	MaterialKind string         `json:"materialKind" binding:"required"`
	Quantity     types.Quantity `json:"quantity" binding:"required"`
}

// StagedEntryResponse is one staged line item.
type StagedEntryResponse struct {
	Key          string         `json:"key"`
	MaterialRef  string         `json:"materialRef"`
	MaterialKind string         `json:"materialKind"`
	MaterialName string         `json:"materialName"`
	Quantity     types.Quantity `json:"quantity"`
	UnitPrice    types.Money    `json:"unitPrice"`
	StagedAt     time.Time      `json:"stagedAt"`
}

// FromStagedEntry maps a staging entry to its response DTO.
func FromStagedEntry(e staging.Entry) StagedEntryResponse {
	return StagedEntryResponse{
		Key:          e.Key,
		MaterialRef:  e.MaterialRef,
		MaterialKind: string(e.MaterialKind),
		MaterialName: e.MaterialName,
		Quantity:     e.Quantity,
		UnitPrice:    e.UnitPrice,
		StagedAt:     e.StagedAt,
	}
}

// StagedListResponse wraps the live entries of one buffer.
type StagedListResponse struct {
	Items []StagedEntryResponse `json:"items"`
	Count int                   `json:"count"`
}

// MaterialKindOf converts the wire kind to the domain kind.
func (r StageItemRequest) MaterialKindOf() material.Kind {
	return material.Kind(r.MaterialKind)
}
