package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tenderdesk/internal/core/apperror"
	"tenderdesk/internal/core/id"
	"tenderdesk/internal/domain"
	"tenderdesk/internal/domain/catalogs/material"
	"tenderdesk/internal/domain/documents/tender"
	"tenderdesk/internal/infrastructure/storage/postgres"
)

const (
	tenderTable     = "doc_tenders"
	tenderItemTable = "doc_tender_items"
)

// TenderRepo implements tender.Repository.
type TenderRepo struct {
	*BaseDocumentRepo[*tender.Tender]

	itemCols []string
}

// NewTenderRepo creates a new tender repository.
func NewTenderRepo(txManager *postgres.TxManager) *TenderRepo {
	return &TenderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*tender.Tender](
			txManager,
			tenderTable,
			postgres.ExtractDBColumns[tender.Tender](),
			func() *tender.Tender { return &tender.Tender{} },
		),
		itemCols: postgres.ExtractDBColumns[tender.Item](),
	}
}

// Delete removes the tender and all its items. Physical removal; the
// attachments metadata goes with the row, blob cleanup is the service's job.
func (r *TenderRepo) Delete(ctx context.Context, docID id.ID) error {
	querier := r.querier(ctx)

	itemsQ := r.Builder().
		Delete(tenderItemTable).
		Where(squirrel.Eq{"tender_id": docID})

	sql, args, err := itemsQ.ToSql()
	if err != nil {
		return fmt.Errorf("build delete items: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete tender items: %w", err)
	}

	docQ := r.Builder().
		Delete(tenderTable).
		Where(squirrel.Eq{"id": docID})

	sql, args, err = docQ.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete tender: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(tenderTable, docID.String())
	}

	return nil
}

// List retrieves tenders with document filtering.
func (r *TenderRepo) List(ctx context.Context, f tender.ListFilter) (domain.ListResult[*tender.Tender], error) {
	q := r.baseSelect()

	if !f.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": pattern},
			squirrel.ILike{"title": pattern},
		})
	}

	if f.Status != nil {
		q = q.Where(squirrel.Eq{"status": *f.Status})
	}
	if f.CompanyRef != nil {
		q = q.Where(squirrel.Eq{"company_ref": *f.CompanyRef})
	}
	if f.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *f.DateFrom})
	}
	if f.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *f.DateTo})
	}

	return r.listWith(ctx, q, f.ListFilter)
}

func (r *TenderRepo) itemSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.itemCols...).
		From(tenderItemTable)
}

// CreateItem inserts a new line item.
func (r *TenderRepo) CreateItem(ctx context.Context, item *tender.Item) error {
	data := postgres.StructToMap(item)

	filteredData := make(map[string]any, len(r.itemCols))
	for _, col := range r.itemCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.Builder().
		Insert(tenderItemTable).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert item: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert tender item: %w", err)
	}

	return nil
}

// GetItem retrieves a line item by storage key.
func (r *TenderRepo) GetItem(ctx context.Context, itemID id.ID) (*tender.Item, error) {
	return r.getItemWhere(ctx, squirrel.Eq{"id": itemID}, itemID.String())
}

// GetItemByRefID retrieves a line item by reference identifier.
func (r *TenderRepo) GetItemByRefID(ctx context.Context, refID string) (*tender.Item, error) {
	return r.getItemWhere(ctx, squirrel.Eq{"ref_id": refID}, refID)
}

// FindItem locates the unique item of a (tender, material ref, kind) triple.
func (r *TenderRepo) FindItem(ctx context.Context, tenderID id.ID, materialRef string, kind material.Kind) (*tender.Item, error) {
	return r.getItemWhere(ctx, squirrel.Eq{
		"tender_id":     tenderID,
		"material_ref":  materialRef,
		"material_kind": kind,
	}, materialRef)
}

func (r *TenderRepo) getItemWhere(ctx context.Context, cond squirrel.Eq, key string) (*tender.Item, error) {
	q := r.itemSelect().
		Where(cond).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build item query: %w", err)
	}

	var item tender.Item
	if err := pgxscan.Get(ctx, r.querier(ctx), &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(tenderItemTable, key)
		}
		return nil, fmt.Errorf("get tender item: %w", err)
	}

	return &item, nil
}

// UpdateItem persists a line item with an optimistic version check. The
// caller bumps the version via Touch before saving; the row must still hold
// the previous one.
func (r *TenderRepo) UpdateItem(ctx context.Context, item *tender.Item) error {
	data := postgres.StructToMap(item)

	filteredData := make(map[string]any, len(r.itemCols))
	for _, col := range r.itemCols {
		if col == "id" || col == "ref_id" || col == "tender_id" || col == "created_at" {
			continue
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.Builder().
		Update(tenderItemTable).
		SetMap(filteredData).
		Where(squirrel.Eq{"id": item.ID}).
		Where(squirrel.Eq{"version": item.Version - 1})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update item: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update tender item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(tenderItemTable, item.ID)
	}

	return nil
}

// DeleteItem removes a line item. Deleting an absent item is not an error.
func (r *TenderRepo) DeleteItem(ctx context.Context, itemID id.ID) error {
	q := r.Builder().
		Delete(tenderItemTable).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete item: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete tender item: %w", err)
	}

	return nil
}

// ListItems returns a tender's items in position order.
func (r *TenderRepo) ListItems(ctx context.Context, tenderID id.ID) ([]*tender.Item, error) {
	q := r.itemSelect().
		Where(squirrel.Eq{"tender_id": tenderID}).
		OrderBy("position ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build item list query: %w", err)
	}

	var items []*tender.Item
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list tender items: %w", err)
	}

	return items, nil
}

// NextItemPosition returns the next free position for a tender.
func (r *TenderRepo) NextItemPosition(ctx context.Context, tenderID id.ID) (int, error) {
	q := r.Builder().
		Select("COALESCE(MAX(position), 0) + 1").
		From(tenderItemTable).
		Where(squirrel.Eq{"tender_id": tenderID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build position query: %w", err)
	}

	var pos int
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&pos); err != nil {
		return 0, fmt.Errorf("next item position: %w", err)
	}

	return pos, nil
}

var _ tender.Repository = (*TenderRepo)(nil)
