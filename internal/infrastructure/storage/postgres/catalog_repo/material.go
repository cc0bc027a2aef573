package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"tenderdesk/internal/core/apperror"
	"tenderdesk/internal/domain/catalogs/material"
	"tenderdesk/internal/infrastructure/storage/postgres"
)

// materialTables maps a material kind to its own table. The four kinds
// share one row shape but live in separate tables.
var materialTables = map[material.Kind]string{
	material.KindRawMaterial:  "cat_raw_materials",
	material.KindLocalProduct: "cat_local_products",
	material.KindForeign:      "cat_foreign_products",
	material.KindManufactured: "cat_manufactured_products",
}

// MaterialRepo implements material.Repository for a single kind.
type MaterialRepo struct {
	*BaseCatalogRepo[*material.Material]
	kind material.Kind
}

// NewMaterialRepo creates a repository bound to one material kind.
func NewMaterialRepo(txManager *postgres.TxManager, kind material.Kind) (*MaterialRepo, error) {
	table, ok := materialTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown material kind: %s", kind)
	}

	return &MaterialRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*material.Material](
			txManager,
			table,
			postgres.ExtractDBColumns[material.Material](),
			func() *material.Material { return &material.Material{} },
		),
		kind: kind,
	}, nil
}

// Kind returns the material kind this repository serves.
func (r *MaterialRepo) Kind() material.Kind {
	return r.kind
}

// FindByRefID retrieves a material by its reference identifier and stamps
// the kind, which is not stored in the row.
func (r *MaterialRepo) FindByRefID(ctx context.Context, refID string) (*material.Material, error) {
	m, err := r.GetByRefID(ctx, refID)
	if err != nil {
		return nil, err
	}
	m.Kind = r.kind
	return m, nil
}

// FindByNameFallback retrieves a material by exact name. Names are not
// unique, so ties resolve to the lowest storage key for a deterministic
// answer.
func (r *MaterialRepo) FindByNameFallback(ctx context.Context, name string) (*material.Material, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"name": name}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("id ASC").
		Limit(1)

	m, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("material", name)
		}
		return nil, err
	}
	m.Kind = r.kind
	return m, nil
}

// ListActive retrieves all active, not deleted materials of this kind.
func (r *MaterialRepo) ListActive(ctx context.Context) ([]*material.Material, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"active": true}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name ASC")

	items, err := r.FindMany(ctx, q)
	if err != nil {
		return nil, err
	}
	for _, m := range items {
		m.Kind = r.kind
	}
	return items, nil
}

var _ material.Repository = (*MaterialRepo)(nil)
