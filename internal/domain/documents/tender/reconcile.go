package tender

import (
	"context"
	"fmt"

	"tenderdesk/internal/core/apperror"
	"tenderdesk/internal/core/types"
	"tenderdesk/internal/domain/catalogs/material"
	"tenderdesk/pkg/logger"
)

// Skip reasons reported by BulkRefresh.
const (
	SkipNoMaterialRef    = "no material reference"
	SkipMaterialNotFound = "material not found"
	SkipMaterialInactive = "material inactive"
	SkipPriceUnchanged   = "price unchanged"
	SkipInvalidPrice     = "resolved price invalid"
)

// AddItemParams describes a material attach request.
type AddItemParams struct {
	MaterialRef  string
	MaterialKind material.Kind
	Quantity     types.Quantity

	// FallbackName enables exact-name lookup when the reference misses
	// (legacy references from before the identifier migration).
	FallbackName string
}

// SkippedItem names an item BulkRefresh left untouched and why.
type SkippedItem struct {
	ItemRef string `json:"itemRef"`
	Reason  string `json:"reason"`
}

// FailedItem names an item whose refresh hit an unexpected error.
type FailedItem struct {
	ItemRef string `json:"itemRef"`
	Error   string `json:"error"`
}

// RefreshResult partitions every processed item into exactly one list.
type RefreshResult struct {
	Updated []*Item       `json:"updated"`
	Skipped []SkippedItem `json:"skipped"`
	Failed  []FailedItem  `json:"failed"`
}

// AddItem attaches a material to a tender. Duplicate adds combine: when an
// item for the same (tender, material ref, kind) already exists its quantity
// is increased and the price re-resolved, so the uniqueness invariant holds
// for any sequence of adds.
func (s *Service) AddItem(ctx context.Context, tenderRef string, p AddItemParams) (*Item, error) {
	if !p.Quantity.IsPositive() {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", p.Quantity.String())
	}
	if p.MaterialRef == "" && p.FallbackName == "" {
		return nil, apperror.NewValidation("material reference is required").
			WithDetail("field", "materialRef")
	}

	doc, err := s.repo.GetByRefID(ctx, tenderRef)
	if err != nil {
		return nil, err
	}
	if err := doc.CanModifyItems(); err != nil {
		return nil, err
	}

	// Always re-resolve fresh; cached fields are never trusted on writes.
	m, err := s.registry.Resolve(ctx, p.MaterialKind, p.MaterialRef, p.FallbackName)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindItem(ctx, doc.ID, m.RefID, m.Kind)
	if err != nil && !apperror.IsNotFound(err) {
		return nil, err
	}

	var item *Item
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if existing != nil {
			existing.SetQuantity(existing.Quantity.Add(p.Quantity))
			existing.ApplyMaterial(m)
			existing.Touch()
			if err := s.repo.UpdateItem(ctx, existing); err != nil {
				return fmt.Errorf("combine quantities: %w", err)
			}
			item = existing
		} else {
			pos, err := s.repo.NextItemPosition(ctx, doc.ID)
			if err != nil {
				return fmt.Errorf("next position: %w", err)
			}
			item = NewItem(doc.ID, m, p.Quantity)
			item.Position = pos
			if err := item.Validate(ctx); err != nil {
				return err
			}
			if err := s.repo.CreateItem(ctx, item); err != nil {
				return fmt.Errorf("create item: %w", err)
			}
		}

		if err := s.syncTotals(ctx, doc); err != nil {
			return err
		}
		return s.enqueueItemsChanged(ctx, doc.RefID, []string{item.RefID})
	})
	if err != nil {
		return nil, err
	}

	s.publishItemsChanged(ctx, doc.RefID, []string{item.RefID})
	return item, nil
}

// UpdateItemQuantity changes an item's quantity. The source material is
// re-resolved fresh and the price recomputed; quantity edits never merely
// scale the stale total. When the material has vanished the item keeps its
// cached price in a degraded state rather than blocking the edit.
func (s *Service) UpdateItemQuantity(ctx context.Context, itemRef string, quantity types.Quantity) (*Item, error) {
	if !quantity.IsPositive() {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", quantity.String())
	}

	item, err := s.repo.GetItemByRefID(ctx, itemRef)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("tender item", itemRef)
		}
		return nil, err
	}

	doc, err := s.repo.GetByID(ctx, item.TenderID)
	if err != nil {
		return nil, err
	}
	if err := doc.CanModifyItems(); err != nil {
		return nil, err
	}

	if item.MaterialRef != "" {
		m, err := s.registry.Resolve(ctx, item.MaterialKind, item.MaterialRef, item.MaterialName)
		switch {
		case err == nil:
			item.ApplyMaterial(m)
		case apperror.IsNotFound(err):
			logger.Warn(ctx, "material vanished, keeping stale price",
				"itemRef", item.RefID,
				"materialRef", item.MaterialRef)
		default:
			return nil, err
		}
	}

	item.SetQuantity(quantity)
	item.Touch()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdateItem(ctx, item); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		if err := s.syncTotals(ctx, doc); err != nil {
			return err
		}
		return s.enqueueItemsChanged(ctx, doc.RefID, []string{item.RefID})
	})
	if err != nil {
		return nil, err
	}

	s.publishItemsChanged(ctx, doc.RefID, []string{item.RefID})
	return item, nil
}

// DeleteItem removes a line item. Deleting an already-absent item succeeds,
// tolerating double-click races at the UI boundary.
func (s *Service) DeleteItem(ctx context.Context, itemRef string) error {
	item, err := s.repo.GetItemByRefID(ctx, itemRef)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}

	doc, err := s.repo.GetByID(ctx, item.TenderID)
	if err != nil && !apperror.IsNotFound(err) {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		if doc != nil {
			if err := s.syncTotals(ctx, doc); err != nil {
				return err
			}
			return s.enqueueItemsChanged(ctx, doc.RefID, []string{item.RefID})
		}
		return nil
	})
	if err != nil {
		return err
	}

	if doc != nil {
		s.publishItemsChanged(ctx, doc.RefID, []string{item.RefID})
	}
	return nil
}

// BulkRefresh re-derives the price and cached fields of every line item of a
// tender from its current source material. Items are processed in position
// order and classified into exactly one of updated, skipped, or failed; one
// item's failure never aborts the rest, and there is no batch rollback:
// updated items are already persisted when the call returns.
func (s *Service) BulkRefresh(ctx context.Context, tenderRef string) (*RefreshResult, error) {
	doc, err := s.repo.GetByRefID(ctx, tenderRef)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListItems(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	result := &RefreshResult{
		Updated: make([]*Item, 0, len(items)),
		Skipped: make([]SkippedItem, 0),
		Failed:  make([]FailedItem, 0),
	}

	for _, item := range items {
		s.refreshOne(ctx, item, result)
	}

	if len(result.Updated) > 0 {
		refs := make([]string, 0, len(result.Updated))
		for _, it := range result.Updated {
			refs = append(refs, it.RefID)
		}

		err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			if err := s.syncTotals(ctx, doc); err != nil {
				return err
			}
			return s.enqueueItemsChanged(ctx, doc.RefID, refs)
		})
		if err != nil {
			logger.Error(ctx, "totals sync after refresh failed",
				"tenderRef", doc.RefID,
				"error", err)
		}

		s.publishItemsChanged(ctx, doc.RefID, refs)
	}

	if s.metrics != nil {
		s.metrics.ObserveRefresh(len(result.Updated), len(result.Skipped), len(result.Failed))
	}

	logger.Info(ctx, "bulk refresh finished",
		"tenderRef", doc.RefID,
		"updated", len(result.Updated),
		"skipped", len(result.Skipped),
		"failed", len(result.Failed))

	return result, nil
}

// refreshOne classifies a single item into exactly one of the result lists.
func (s *Service) refreshOne(ctx context.Context, item *Item, result *RefreshResult) {
	if item.MaterialRef == "" {
		result.Skipped = append(result.Skipped, SkippedItem{ItemRef: item.RefID, Reason: SkipNoMaterialRef})
		return
	}

	m, err := s.registry.Resolve(ctx, item.MaterialKind, item.MaterialRef, item.MaterialName)
	if err != nil {
		if apperror.IsNotFound(err) {
			result.Skipped = append(result.Skipped, SkippedItem{ItemRef: item.RefID, Reason: SkipMaterialNotFound})
			return
		}
		result.Failed = append(result.Failed, FailedItem{ItemRef: item.RefID, Error: err.Error()})
		return
	}

	if !m.Active {
		result.Skipped = append(result.Skipped, SkippedItem{ItemRef: item.RefID, Reason: SkipMaterialInactive})
		return
	}

	resolved := material.ResolvePrice(m)

	// A zero resolution against a previously non-zero price signals an
	// invalid source price field; writing it back would wipe a real value.
	if resolved.UnitPrice.IsZero() && !item.UnitPrice.IsZero() {
		result.Skipped = append(result.Skipped, SkippedItem{ItemRef: item.RefID, Reason: SkipInvalidPrice})
		return
	}

	if resolved.UnitPrice.Equal(item.UnitPrice) {
		result.Skipped = append(result.Skipped, SkippedItem{ItemRef: item.RefID, Reason: SkipPriceUnchanged})
		return
	}

	item.ApplyMaterial(m)
	item.Touch()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.UpdateItem(ctx, item)
	})
	if err != nil {
		result.Failed = append(result.Failed, FailedItem{ItemRef: item.RefID, Error: err.Error()})
		return
	}

	result.Updated = append(result.Updated, item)
}

// syncTotals recalculates and persists the tender header totals.
func (s *Service) syncTotals(ctx context.Context, doc *Tender) error {
	items, err := s.repo.ListItems(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("list items for totals: %w", err)
	}
	doc.RecalculateTotals(items)
	doc.Touch()
	if err := s.repo.Update(ctx, doc); err != nil {
		return fmt.Errorf("update totals: %w", err)
	}
	return nil
}
