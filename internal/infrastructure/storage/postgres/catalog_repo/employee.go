package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"tenderdesk/internal/domain/catalogs/employee"
	"tenderdesk/internal/infrastructure/storage/postgres"
)

const employeeTable = "cat_employees"

// EmployeeRepo implements employee.Repository.
type EmployeeRepo struct {
	*BaseCatalogRepo[*employee.Employee]
}

// NewEmployeeRepo creates a new employee repository.
func NewEmployeeRepo(txManager *postgres.TxManager) *EmployeeRepo {
	return &EmployeeRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*employee.Employee](
			txManager,
			employeeTable,
			postgres.ExtractDBColumns[employee.Employee](),
			func() *employee.Employee { return &employee.Employee{} },
		),
	}
}

// ListByCompany retrieves all employees of a company, name order.
func (r *EmployeeRepo) ListByCompany(ctx context.Context, companyRef string) ([]*employee.Employee, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"company_ref": companyRef}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name ASC")

	return r.FindMany(ctx, q)
}

var _ employee.Repository = (*EmployeeRepo)(nil)
