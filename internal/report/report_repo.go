package report

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

// ActorRef is the slice of an employee row the state machine needs for
// authorization and approver routing.
type ActorRef struct {
	ID           string  `gorm:"column:id"`
	Role         string  `gorm:"column:role"`
	SupervisorID *string `gorm:"column:supervisor_id"`
}

//go:generate mockgen -source=report_repo.go -destination=mock/report_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Report) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Report, error)
	FindByNaturalKey(ctx context.Context, companyID, employeeID string, year, month, subNumber int) (*Report, error)
	FindByEmployeeAndCompany(ctx context.Context, companyID, employeeID string) ([]Report, error)
	FindByEmployeeIDs(ctx context.Context, companyID string, employeeIDs []string, status string) ([]Report, error)
	Update(ctx context.Context, r *Report) error
	Delete(ctx context.Context, companyID, id string) error
	GetActorRef(ctx context.Context, companyID, employeeID string) (*ActorRef, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, rep *Report) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Report, error) {
	var rep Report
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&rep, "id = ?", id).Error
	return &rep, err
}

func (r *repository) FindByNaturalKey(ctx context.Context, companyID, employeeID string, year, month, subNumber int) (*Report, error) {
	var rep Report
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("period_year = ?", year).
		Where("period_month = ?", month).
		Where("period_sub_number = ?", subNumber).
		First(&rep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *repository) FindByEmployeeAndCompany(ctx context.Context, companyID, employeeID string) ([]Report, error) {
	var reports []Report
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Order("period_year DESC, period_month DESC, period_sub_number DESC").
		Find(&reports).Error
	return reports, err
}

func (r *repository) FindByEmployeeIDs(ctx context.Context, companyID string, employeeIDs []string, status string) ([]Report, error) {
	if len(employeeIDs) == 0 {
		return []Report{}, nil
	}

	db := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id IN ?", employeeIDs)
	if status != "" {
		db = db.Where("status = ?", NormalizeStatus(status))
	}

	var reports []Report
	err := db.Order("submitted_at DESC NULLS LAST").Find(&reports).Error
	return reports, err
}

func (r *repository) Update(ctx context.Context, rep *Report) error {
	return r.db.WithContext(ctx).Save(rep).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&Report{}, "id = ?", id).Error
}

func (r *repository) GetActorRef(ctx context.Context, companyID, employeeID string) (*ActorRef, error) {
	var ref ActorRef
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("id, role, supervisor_id").
		Where("company_id = ?", companyID).
		Where("id = ?", employeeID).
		Take(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}
