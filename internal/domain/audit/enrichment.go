// Package audit provides utilities for audit field enrichment in domain entities.
package audit

import (
	"context"

	appctx "tenderdesk/internal/core/context"
)

// EnrichCreatedBy sets CreatedBy and UpdatedBy fields from the context user.
// Use in BeforeCreate hooks. If no user is in context, this is a no-op.
func EnrichCreatedBy(ctx context.Context, entity interface{}) error {
	userID := appctx.GetUserID(ctx)
	if userID == "" {
		return nil
	}

	switch e := entity.(type) {
	case interface {
		SetCreatedBy(string)
		SetUpdatedBy(string)
	}:
		e.SetCreatedBy(userID)
		e.SetUpdatedBy(userID)
	}

	return nil
}

// EnrichUpdatedBy sets only the UpdatedBy field from the context user.
// Use in BeforeUpdate hooks.
func EnrichUpdatedBy(ctx context.Context, entity interface{}) error {
	userID := appctx.GetUserID(ctx)
	if userID == "" {
		return nil
	}

	switch e := entity.(type) {
	case interface{ SetUpdatedBy(string) }:
		e.SetUpdatedBy(userID)
	}

	return nil
}

// EnrichCreatedByDirect sets both attribution fields directly.
func EnrichCreatedByDirect(ctx context.Context, createdBy, updatedBy *string) {
	userID := appctx.GetUserID(ctx)
	if userID != "" && createdBy != nil && updatedBy != nil {
		*createdBy = userID
		*updatedBy = userID
	}
}

// EnrichUpdatedByDirect sets the UpdatedBy field directly.
func EnrichUpdatedByDirect(ctx context.Context, updatedBy *string) {
	userID := appctx.GetUserID(ctx)
	if userID != "" && updatedBy != nil {
		*updatedBy = userID
	}
}
