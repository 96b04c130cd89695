package kpi

import (
	"context"
	"errors"
	"time"

	"go-expense/internal/employee"
	"go-expense/internal/hierarchy"
	kpierrors "go-expense/internal/kpi/errors"
	"go-expense/internal/report"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// recentReviewWindow bounds the latency and approval-rate sample so one
// prolific reviewer's ancient history cannot skew current numbers.
const recentReviewWindow = 100

const trendMonths = 6

//go:generate mockgen -source=kpi_service.go -destination=mock/kpi_service_mock.go -package=mock
type Service interface {
	SnapshotForSupervisor(ctx context.Context, companyID, actorID, supervisorID string) (*Snapshot, error)
	SnapshotForSupervisorAt(ctx context.Context, companyID, actorID, supervisorID string, asOf time.Time) (*Snapshot, error)
}

type service struct {
	repo     Repository
	resolver hierarchy.Resolver
	logger   *zap.Logger
}

func NewService(repo Repository, resolver hierarchy.Resolver, logger ...*zap.Logger) Service {
	l := zap.L().Named("kpi.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("kpi.service")
	}
	return &service{repo: repo, resolver: resolver, logger: l}
}

func (s *service) SnapshotForSupervisor(ctx context.Context, companyID, actorID, supervisorID string) (*Snapshot, error) {
	return s.SnapshotForSupervisorAt(ctx, companyID, actorID, supervisorID, time.Now().UTC())
}

func (s *service) SnapshotForSupervisorAt(ctx context.Context, companyID, actorID, supervisorID string, asOf time.Time) (*Snapshot, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, kpierrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(supervisorID); err != nil {
		return nil, kpierrors.ErrInvalidSupervisorID
	}

	if err := s.authorize(ctx, companyID, actorID, supervisorID); err != nil {
		return nil, err
	}

	team, err := s.resolver.ResolveSupervisedTeam(ctx, companyID, supervisorID)
	if err != nil {
		s.logger.Error("resolve supervised team failed", zap.Error(err))
		return nil, err
	}

	memberIDs := make([]string, len(team))
	for i, member := range team {
		memberIDs[i] = member.EmployeeID
	}

	thisMonthStart := monthStart(asOf)
	lastMonthStart := thisMonthStart.AddDate(0, -1, 0)
	nextMonthStart := thisMonthStart.AddDate(0, 1, 0)
	trendStart := thisMonthStart.AddDate(0, -(trendMonths - 1), 0)

	var (
		rawCounts map[string]int64
		thisMonth []report.Report
		lastMonth []report.Report
		reviewed  []report.Report
		trendRows []report.Report
	)

	// Sub-queries are independent of each other; any failure voids the
	// whole snapshot rather than serving partial numbers.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rawCounts, err = s.repo.CountByStatus(gctx, companyID, memberIDs)
		return err
	})
	g.Go(func() error {
		var err error
		thisMonth, err = s.repo.FindApprovedByApproverInRange(gctx, companyID, supervisorID, thisMonthStart, nextMonthStart)
		return err
	})
	g.Go(func() error {
		var err error
		lastMonth, err = s.repo.FindApprovedByApproverInRange(gctx, companyID, supervisorID, lastMonthStart, thisMonthStart)
		return err
	})
	g.Go(func() error {
		var err error
		reviewed, err = s.repo.FindRecentReviewedBy(gctx, companyID, supervisorID, recentReviewWindow)
		return err
	})
	g.Go(func() error {
		var err error
		trendRows, err = s.repo.FindForEmployeesSince(gctx, companyID, memberIDs, trendStart)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("kpi sub-query failed", zap.String("supervisor_id", supervisorID), zap.Error(err))
		return nil, err
	}

	active := hierarchy.ActiveOnly(team)
	snapshot := &Snapshot{
		SupervisorID: supervisorID,
		AsOf:         asOf,
		Team: TeamSize{
			Total:    len(team),
			Active:   len(active),
			Archived: len(team) - len(active),
		},
		Reports:     foldStatusCounts(rawCounts),
		ThisMonth:   monthlyFigures(thisMonth),
		LastMonth:   monthlyFigures(lastMonth),
		Performance: performanceFigures(reviewed),
		Trend:       trendBuckets(trendRows, thisMonthStart),
	}
	return snapshot, nil
}

func (s *service) authorize(ctx context.Context, companyID, actorID, supervisorID string) error {
	if actorID == supervisorID {
		return nil
	}
	role, err := s.repo.FindActorRole(ctx, companyID, actorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return kpierrors.ErrSnapshotForbidden
	}
	if err != nil {
		return err
	}
	if role == employee.RoleAdmin || role == employee.RoleFinance {
		return nil
	}
	return kpierrors.ErrSnapshotForbidden
}

func foldStatusCounts(raw map[string]int64) StatusCounts {
	var counts StatusCounts
	for status, n := range raw {
		switch report.NormalizeStatus(status) {
		case report.StatusSubmitted:
			counts.Pending += n
		case report.StatusNeedsRevision:
			counts.NeedsRevision += n
		case report.StatusApproved:
			counts.Approved += n
		}
	}
	return counts
}

func monthlyFigures(approved []report.Report) MonthlyFigures {
	figures := MonthlyFigures{ApprovedCount: int64(len(approved))}
	for _, r := range approved {
		figures.ApprovedExpenses += r.ReportData.TotalExpenses()
	}
	return figures
}

func performanceFigures(reviewed []report.Report) Performance {
	perf := Performance{ReviewedCount: len(reviewed)}

	var approved, rejected, inReview int64
	var totalHours float64
	var fastest float64
	var latencySamples int

	for _, r := range reviewed {
		switch report.NormalizeStatus(r.Status) {
		case report.StatusApproved:
			approved++
		case report.StatusRejected:
			rejected++
		case report.StatusNeedsRevision:
			inReview++
		}
		if r.SubmittedAt != nil && r.ApprovedAt != nil {
			hours := r.ApprovedAt.Sub(*r.SubmittedAt).Hours()
			if hours < 0 {
				continue
			}
			totalHours += hours
			if latencySamples == 0 || hours < fastest {
				fastest = hours
			}
			latencySamples++
		}
	}

	if latencySamples > 0 {
		avg := totalHours / float64(latencySamples)
		min := fastest
		perf.AvgApprovalHours = &avg
		perf.FastestApprovalHours = &min
	}
	// Reports sent back for revision still count against the rate until the
	// reviewer settles them one way or the other.
	if total := approved + rejected + inReview; total > 0 {
		rate := float64(approved) / float64(total)
		perf.ApprovalRate = &rate
	}
	return perf
}

// trendBuckets returns exactly six calendar-month buckets, oldest first,
// ending with the month containing asOf. Empty months stay in the slice
// with zero counts so charts keep a fixed axis.
func trendBuckets(rows []report.Report, thisMonthStart time.Time) []TrendBucket {
	buckets := make([]TrendBucket, trendMonths)
	index := make(map[int]int, trendMonths)
	for i := 0; i < trendMonths; i++ {
		start := thisMonthStart.AddDate(0, i-(trendMonths-1), 0)
		buckets[i] = TrendBucket{Year: start.Year(), Month: int(start.Month())}
		index[start.Year()*100+int(start.Month())] = i
	}

	for _, r := range rows {
		if r.SubmittedAt != nil {
			if i, ok := index[r.SubmittedAt.Year()*100+int(r.SubmittedAt.Month())]; ok {
				buckets[i].SubmittedCount++
			}
		}
		if r.ApprovedAt != nil {
			if i, ok := index[r.ApprovedAt.Year()*100+int(r.ApprovedAt.Month())]; ok {
				buckets[i].ApprovedCount++
				buckets[i].ApprovedExpenses += r.ReportData.TotalExpenses()
			}
		}
	}
	return buckets
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
