package kpi

import (
	"context"
	"time"

	"go-expense/internal/report"

	"gorm.io/gorm"
)

//go:generate mockgen -source=kpi_repo.go -destination=mock/kpi_repo_mock.go -package=mock
type Repository interface {
	CountByStatus(ctx context.Context, companyID string, employeeIDs []string) (map[string]int64, error)
	FindApprovedByApproverInRange(ctx context.Context, companyID, approverID string, from, to time.Time) ([]report.Report, error)
	FindRecentReviewedBy(ctx context.Context, companyID, reviewerID string, limit int) ([]report.Report, error)
	FindForEmployeesSince(ctx context.Context, companyID string, employeeIDs []string, since time.Time) ([]report.Report, error)
	FindActorRole(ctx context.Context, companyID, actorID string) (string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type statusCount struct {
	Status string `gorm:"column:status"`
	Count  int64  `gorm:"column:count"`
}

func (r *repository) CountByStatus(ctx context.Context, companyID string, employeeIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64)
	if len(employeeIDs) == 0 {
		return counts, nil
	}

	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&report.Report{}).
		Select("status, COUNT(*) AS count").
		Where("company_id = ?", companyID).
		Where("employee_id IN ?", employeeIDs).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.Status] += row.Count
	}
	return counts, nil
}

func (r *repository) FindApprovedByApproverInRange(ctx context.Context, companyID, approverID string, from, to time.Time) ([]report.Report, error) {
	var reports []report.Report
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("approved_by = ?", approverID).
		Where("approved_at >= ? AND approved_at < ?", from, to).
		Find(&reports).Error
	return reports, err
}

func (r *repository) FindRecentReviewedBy(ctx context.Context, companyID, reviewerID string, limit int) ([]report.Report, error) {
	var reports []report.Report
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("reviewed_by = ?", reviewerID).
		Order("reviewed_at DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}

func (r *repository) FindForEmployeesSince(ctx context.Context, companyID string, employeeIDs []string, since time.Time) ([]report.Report, error) {
	if len(employeeIDs) == 0 {
		return []report.Report{}, nil
	}

	var reports []report.Report
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id IN ?", employeeIDs).
		Where("(submitted_at >= ? OR approved_at >= ?)", since, since).
		Find(&reports).Error
	return reports, err
}

func (r *repository) FindActorRole(ctx context.Context, companyID, actorID string) (string, error) {
	var role string
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("role").
		Where("company_id = ? AND id = ?", companyID, actorID).
		Take(&role).Error
	return role, err
}
