package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"tenderdesk/internal/core/apperror"
	"tenderdesk/internal/domain/catalogs/company"
	"tenderdesk/internal/infrastructure/storage/postgres"
)

const companyTable = "cat_companies"

// CompanyRepo implements company.Repository.
type CompanyRepo struct {
	*BaseCatalogRepo[*company.Company]
}

// NewCompanyRepo creates a new company repository.
func NewCompanyRepo(txManager *postgres.TxManager) *CompanyRepo {
	return &CompanyRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*company.Company](
			txManager,
			companyTable,
			postgres.ExtractDBColumns[company.Company](),
			func() *company.Company { return &company.Company{} },
		),
	}
}

// FindByTaxNumber retrieves a company by its tax number.
func (r *CompanyRepo) FindByTaxNumber(ctx context.Context, taxNumber string) (*company.Company, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"tax_number": taxNumber}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	c, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("company", taxNumber)
		}
		return nil, err
	}
	return c, nil
}

var _ company.Repository = (*CompanyRepo)(nil)
