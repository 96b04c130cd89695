package kpi_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-expense/internal/hierarchy"
	"go-expense/internal/kpi"
	kpierrors "go-expense/internal/kpi/errors"
	"go-expense/internal/report"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeKpiRepository struct {
	countByStatusFn       func(ctx context.Context, companyID string, employeeIDs []string) (map[string]int64, error)
	findApprovedInRangeFn func(ctx context.Context, companyID, approverID string, from, to time.Time) ([]report.Report, error)
	findRecentReviewedFn  func(ctx context.Context, companyID, reviewerID string, limit int) ([]report.Report, error)
	findForEmployeesFn    func(ctx context.Context, companyID string, employeeIDs []string, since time.Time) ([]report.Report, error)
	findActorRoleFn       func(ctx context.Context, companyID, actorID string) (string, error)
}

func (f *fakeKpiRepository) CountByStatus(ctx context.Context, companyID string, employeeIDs []string) (map[string]int64, error) {
	if f.countByStatusFn != nil {
		return f.countByStatusFn(ctx, companyID, employeeIDs)
	}
	return map[string]int64{}, nil
}

func (f *fakeKpiRepository) FindApprovedByApproverInRange(ctx context.Context, companyID, approverID string, from, to time.Time) ([]report.Report, error) {
	if f.findApprovedInRangeFn != nil {
		return f.findApprovedInRangeFn(ctx, companyID, approverID, from, to)
	}
	return []report.Report{}, nil
}

func (f *fakeKpiRepository) FindRecentReviewedBy(ctx context.Context, companyID, reviewerID string, limit int) ([]report.Report, error) {
	if f.findRecentReviewedFn != nil {
		return f.findRecentReviewedFn(ctx, companyID, reviewerID, limit)
	}
	return []report.Report{}, nil
}

func (f *fakeKpiRepository) FindForEmployeesSince(ctx context.Context, companyID string, employeeIDs []string, since time.Time) ([]report.Report, error) {
	if f.findForEmployeesFn != nil {
		return f.findForEmployeesFn(ctx, companyID, employeeIDs, since)
	}
	return []report.Report{}, nil
}

func (f *fakeKpiRepository) FindActorRole(ctx context.Context, companyID, actorID string) (string, error) {
	if f.findActorRoleFn != nil {
		return f.findActorRoleFn(ctx, companyID, actorID)
	}
	return "employee", nil
}

type fakeTeamResolver struct {
	team []hierarchy.Link
	err  error
}

func (f *fakeTeamResolver) ResolveSupervisedSet(ctx context.Context, companyID, supervisorID string) ([]string, error) {
	ids := make([]string, len(f.team))
	for i, member := range f.team {
		ids[i] = member.EmployeeID
	}
	return ids, f.err
}

func (f *fakeTeamResolver) ResolveSupervisedTeam(ctx context.Context, companyID, supervisorID string) ([]hierarchy.Link, error) {
	return f.team, f.err
}

func approvedReport(travel float64, submittedAt, approvedAt time.Time) report.Report {
	return report.Report{
		Status:      report.StatusApproved,
		ReportData:  report.ReportData{Travel: travel},
		SubmittedAt: &submittedAt,
		ApprovedAt:  &approvedAt,
	}
}

func TestKpiService_SnapshotForSupervisor(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	supervisorID := uuid.New().String()
	asOf := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	t.Run("empty team still returns a full snapshot", func(t *testing.T) {
		svc := kpi.NewService(&fakeKpiRepository{}, &fakeTeamResolver{})

		snapshot, err := svc.SnapshotForSupervisorAt(ctx, companyID, supervisorID, supervisorID, asOf)

		assert.NoError(t, err)
		assert.Equal(t, 0, snapshot.Team.Total)
		assert.Equal(t, int64(0), snapshot.Reports.Pending)
		assert.Equal(t, int64(0), snapshot.Reports.Approved)
		assert.Equal(t, int64(0), snapshot.ThisMonth.ApprovedCount)
		assert.Nil(t, snapshot.Performance.ApprovalRate)
		assert.Nil(t, snapshot.Performance.AvgApprovalHours)
		assert.Len(t, snapshot.Trend, 6)
		for _, bucket := range snapshot.Trend {
			assert.Equal(t, int64(0), bucket.SubmittedCount)
		}
	})

	t.Run("legacy status spellings fold into pending", func(t *testing.T) {
		repo := &fakeKpiRepository{
			countByStatusFn: func(ctx context.Context, companyID string, employeeIDs []string) (map[string]int64, error) {
				return map[string]int64{
					"SUBMITTED":          2,
					"PENDING_SUPERVISOR": 1,
					"NEEDS_REVISION":     1,
					"APPROVED":           4,
					"DRAFT":              7,
				}, nil
			},
		}
		resolver := &fakeTeamResolver{team: []hierarchy.Link{{EmployeeID: uuid.New().String()}}}
		svc := kpi.NewService(repo, resolver)

		snapshot, err := svc.SnapshotForSupervisorAt(ctx, companyID, supervisorID, supervisorID, asOf)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), snapshot.Reports.Pending)
		assert.Equal(t, int64(1), snapshot.Reports.NeedsRevision)
		assert.Equal(t, int64(4), snapshot.Reports.Approved)
	})

	t.Run("monthly totals are recomputed from line items", func(t *testing.T) {
		repo := &fakeKpiRepository{
			findApprovedInRangeFn: func(ctx context.Context, companyID, approverID string, from, to time.Time) ([]report.Report, error) {
				if from.Month() == time.August {
					return []report.Report{
						approvedReport(100, asOf.AddDate(0, 0, -5), asOf.AddDate(0, 0, -4)),
						approvedReport(50.25, asOf.AddDate(0, 0, -3), asOf.AddDate(0, 0, -2)),
					}, nil
				}
				return []report.Report{}, nil
			},
		}
		svc := kpi.NewService(repo, &fakeTeamResolver{})

		snapshot, err := svc.SnapshotForSupervisorAt(ctx, companyID, supervisorID, supervisorID, asOf)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), snapshot.ThisMonth.ApprovedCount)
		assert.Equal(t, 150.25, snapshot.ThisMonth.ApprovedExpenses)
		assert.Equal(t, int64(0), snapshot.LastMonth.ApprovedCount)
	})

	t.Run("latency and approval rate over recent reviews", func(t *testing.T) {
		base := time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC)
		repo := &fakeKpiRepository{
			findRecentReviewedFn: func(ctx context.Context, companyID, reviewerID string, limit int) ([]report.Report, error) {
				rejected := report.Report{Status: report.StatusRejected}
				return []report.Report{
					approvedReport(10, base, base.Add(10*time.Hour)),
					approvedReport(20, base, base.Add(30*time.Hour)),
					rejected,
				}, nil
			},
		}
		svc := kpi.NewService(repo, &fakeTeamResolver{})

		snapshot, err := svc.SnapshotForSupervisorAt(ctx, companyID, supervisorID, supervisorID, asOf)

		assert.NoError(t, err)
		assert.Equal(t, 3, snapshot.Performance.ReviewedCount)
		if assert.NotNil(t, snapshot.Performance.AvgApprovalHours) {
			assert.InDelta(t, 20.0, *snapshot.Performance.AvgApprovalHours, 0.001)
		}
		if assert.NotNil(t, snapshot.Performance.FastestApprovalHours) {
			assert.InDelta(t, 10.0, *snapshot.Performance.FastestApprovalHours, 0.001)
		}
		if assert.NotNil(t, snapshot.Performance.ApprovalRate) {
			assert.InDelta(t, 2.0/3.0, *snapshot.Performance.ApprovalRate, 0.001)
		}
	})

	t.Run("revision requests stay in the approval rate denominator", func(t *testing.T) {
		base := time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC)
		repo := &fakeKpiRepository{
			findRecentReviewedFn: func(ctx context.Context, companyID, reviewerID string, limit int) ([]report.Report, error) {
				return []report.Report{
					approvedReport(10, base, base.Add(4*time.Hour)),
					approvedReport(15, base, base.Add(6*time.Hour)),
					{Status: report.StatusRejected},
					{Status: report.StatusNeedsRevision},
				}, nil
			},
		}
		svc := kpi.NewService(repo, &fakeTeamResolver{})

		snapshot, err := svc.SnapshotForSupervisorAt(ctx, companyID, supervisorID, supervisorID, asOf)

		assert.NoError(t, err)
		assert.Equal(t, 4, snapshot.Performance.ReviewedCount)
		if assert.NotNil(t, snapshot.Performance.ApprovalRate) {
			assert.InDelta(t, 0.5, *snapshot.Performance.ApprovalRate, 0.001)
		}
	})

	t.Run("trend keeps six fixed buckets oldest first", func(t *testing.T) {
		june := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
		repo := &fakeKpiRepository{
			findForEmployeesFn: func(ctx context.Context, companyID string, employeeIDs []string, since time.Time) ([]report.Report, error) {
				return []report.Report{
					approvedReport(40, june, june.AddDate(0, 0, 2)),
				}, nil
			},
		}
		resolver := &fakeTeamResolver{team: []hierarchy.Link{{EmployeeID: uuid.New().String()}}}
		svc := kpi.NewService(repo, resolver)

		snapshot, err := svc.SnapshotForSupervisorAt(ctx, companyID, supervisorID, supervisorID, asOf)

		assert.NoError(t, err)
		assert.Len(t, snapshot.Trend, 6)
		assert.Equal(t, 3, snapshot.Trend[0].Month) // March
		assert.Equal(t, 8, snapshot.Trend[5].Month) // August

		juneBucket := snapshot.Trend[3]
		assert.Equal(t, 6, juneBucket.Month)
		assert.Equal(t, int64(1), juneBucket.SubmittedCount)
		assert.Equal(t, int64(1), juneBucket.ApprovedCount)
		assert.Equal(t, 40.0, juneBucket.ApprovedExpenses)
	})

	t.Run("any sub-query failure voids the snapshot", func(t *testing.T) {
		repo := &fakeKpiRepository{
			findRecentReviewedFn: func(ctx context.Context, companyID, reviewerID string, limit int) ([]report.Report, error) {
				return nil, errors.New("query timeout")
			},
		}
		svc := kpi.NewService(repo, &fakeTeamResolver{})

		snapshot, err := svc.SnapshotForSupervisorAt(ctx, companyID, supervisorID, supervisorID, asOf)

		assert.Error(t, err)
		assert.Nil(t, snapshot)
	})

	t.Run("other supervisors' metrics are off limits", func(t *testing.T) {
		repo := &fakeKpiRepository{
			findActorRoleFn: func(ctx context.Context, companyID, actorID string) (string, error) {
				return "supervisor", nil
			},
		}
		svc := kpi.NewService(repo, &fakeTeamResolver{})

		actorID := uuid.New().String()
		_, err := svc.SnapshotForSupervisorAt(ctx, companyID, actorID, supervisorID, asOf)

		assert.ErrorIs(t, err, kpierrors.ErrSnapshotForbidden)
	})

	t.Run("finance may read any supervisor's metrics", func(t *testing.T) {
		repo := &fakeKpiRepository{
			findActorRoleFn: func(ctx context.Context, companyID, actorID string) (string, error) {
				return "finance", nil
			},
		}
		svc := kpi.NewService(repo, &fakeTeamResolver{})

		actorID := uuid.New().String()
		snapshot, err := svc.SnapshotForSupervisorAt(ctx, companyID, actorID, supervisorID, asOf)

		assert.NoError(t, err)
		assert.NotNil(t, snapshot)
	})
}
