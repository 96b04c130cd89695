package rbac

import "gorm.io/gorm"

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetEmployeeRoles(companyID string) ([]EmployeeRoleRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// EmployeeRoleRow maps an employee onto their single role. Roles are a fixed
// enum stored on the employee row, not a separate roles table.
type EmployeeRoleRow struct {
	EmployeeID string
	Role       string
}

func (r *repository) GetEmployeeRoles(companyID string) ([]EmployeeRoleRow, error) {
	var result []EmployeeRoleRow

	err := r.db.
		Table("employees").
		Select("id AS employee_id, role").
		Where("company_id = ?", companyID).
		Where("archived = ?", false).
		Scan(&result).Error

	return result, err
}
