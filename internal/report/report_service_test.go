package report_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"go-expense/internal/events"
	"go-expense/internal/hierarchy"
	"go-expense/internal/messaging/kafka"
	"go-expense/internal/report"
	reporterrors "go-expense/internal/report/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeReportRepository struct {
	withTxFn                   func(tx *sql.Tx) report.Repository
	createFn                   func(ctx context.Context, r *report.Report) error
	findByIDAndCompanyFn       func(ctx context.Context, companyID, id string) (*report.Report, error)
	findByNaturalKeyFn         func(ctx context.Context, companyID, employeeID string, year, month, subNumber int) (*report.Report, error)
	findByEmployeeAndCompanyFn func(ctx context.Context, companyID, employeeID string) ([]report.Report, error)
	findByEmployeeIDsFn        func(ctx context.Context, companyID string, employeeIDs []string, status string) ([]report.Report, error)
	updateFn                   func(ctx context.Context, r *report.Report) error
	deleteFn                   func(ctx context.Context, companyID, id string) error
	getActorRefFn              func(ctx context.Context, companyID, employeeID string) (*report.ActorRef, error)
}

func (f *fakeReportRepository) WithTx(tx *sql.Tx) report.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeReportRepository) Create(ctx context.Context, r *report.Report) error {
	if f.createFn != nil {
		return f.createFn(ctx, r)
	}
	return nil
}

func (f *fakeReportRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*report.Report, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, nil
}

func (f *fakeReportRepository) FindByNaturalKey(ctx context.Context, companyID, employeeID string, year, month, subNumber int) (*report.Report, error) {
	if f.findByNaturalKeyFn != nil {
		return f.findByNaturalKeyFn(ctx, companyID, employeeID, year, month, subNumber)
	}
	return nil, nil
}

func (f *fakeReportRepository) FindByEmployeeAndCompany(ctx context.Context, companyID, employeeID string) ([]report.Report, error) {
	if f.findByEmployeeAndCompanyFn != nil {
		return f.findByEmployeeAndCompanyFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

func (f *fakeReportRepository) FindByEmployeeIDs(ctx context.Context, companyID string, employeeIDs []string, status string) ([]report.Report, error) {
	if f.findByEmployeeIDsFn != nil {
		return f.findByEmployeeIDsFn(ctx, companyID, employeeIDs, status)
	}
	return []report.Report{}, nil
}

func (f *fakeReportRepository) Update(ctx context.Context, r *report.Report) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, r)
	}
	return nil
}

func (f *fakeReportRepository) Delete(ctx context.Context, companyID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, companyID, id)
	}
	return nil
}

func (f *fakeReportRepository) GetActorRef(ctx context.Context, companyID, employeeID string) (*report.ActorRef, error) {
	if f.getActorRefFn != nil {
		return f.getActorRefFn(ctx, companyID, employeeID)
	}
	return &report.ActorRef{ID: employeeID, Role: "employee"}, nil
}

type fakeResolver struct {
	resolveSetFn func(ctx context.Context, companyID, supervisorID string) ([]string, error)
}

func (f *fakeResolver) ResolveSupervisedSet(ctx context.Context, companyID, supervisorID string) ([]string, error) {
	if f.resolveSetFn != nil {
		return f.resolveSetFn(ctx, companyID, supervisorID)
	}
	return []string{}, nil
}

func (f *fakeResolver) ResolveSupervisedTeam(ctx context.Context, companyID, supervisorID string) ([]hierarchy.Link, error) {
	return nil, nil
}

type fakeCounterRepository struct {
	next int64
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error   { return nil }
func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id, r string) error {
	return nil
}

type reportServiceDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	service  report.Service
	repo     *fakeReportRepository
	resolver *fakeResolver
	outbox   *fakeOutboxRepository
}

func setupReportServiceTest(t *testing.T) *reportServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeReportRepository{}
	resolver := &fakeResolver{}
	outbox := &fakeOutboxRepository{}
	svc := report.NewServiceWithOutbox(db, repo, resolver, &fakeCounterRepository{}, outbox)

	return &reportServiceDeps{
		db:       db,
		sqlMock:  sqlMock,
		service:  svc,
		repo:     repo,
		resolver: resolver,
		outbox:   outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestReportService_Upsert(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("creates draft with initial workflow entry", func(t *testing.T) {
		deps := setupReportServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var created *report.Report
		deps.repo.createFn = func(ctx context.Context, r *report.Report) error {
			created = r
			return nil
		}

		resp, err := deps.service.Upsert(ctx, companyID, employeeID, report.UpsertReportRequest{
			EmployeeID:  employeeID,
			PeriodYear:  2026,
			PeriodMonth: 8,
			ReportData:  report.ReportData{Travel: 120.50, Meals: 30},
		})

		assert.NoError(t, err)
		assert.Equal(t, report.StatusDraft, resp.Status)
		assert.Equal(t, "RPT-000001", resp.ReportNumber)
		assert.Equal(t, 150.50, resp.TotalExpenses)
		assert.NotNil(t, created)
		assert.Len(t, created.ApprovalWorkflow, 1)
		assert.Equal(t, report.OutcomeCreated, created.ApprovalWorkflow[0].Outcome)
	})

	t.Run("same natural key merges instead of duplicating", func(t *testing.T) {
		deps := setupReportServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		originalID := uuid.New()
		originalCreatedAt := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
		existing := &report.Report{
			ID:         originalID,
			CompanyID:  uuid.MustParse(companyID),
			EmployeeID: uuid.MustParse(employeeID),
			PeriodYear: 2026, PeriodMonth: 8,
			Status:     report.StatusSubmitted,
			ReportData: report.ReportData{Travel: 10},
			ApprovalWorkflow: report.WorkflowLog{
				{Outcome: report.OutcomeCreated},
				{Outcome: report.OutcomeSubmitted},
			},
			CreatedAt: originalCreatedAt,
		}
		deps.repo.findByNaturalKeyFn = func(ctx context.Context, companyID, employeeID string, year, month, subNumber int) (*report.Report, error) {
			return existing, nil
		}

		var updated *report.Report
		deps.repo.updateFn = func(ctx context.Context, r *report.Report) error {
			updated = r
			return nil
		}

		resp, err := deps.service.Upsert(ctx, companyID, employeeID, report.UpsertReportRequest{
			EmployeeID:  employeeID,
			PeriodYear:  2026,
			PeriodMonth: 8,
			ReportData:  report.ReportData{Travel: 99},
		})

		assert.NoError(t, err)
		assert.Equal(t, originalID.String(), resp.ID)
		assert.Equal(t, report.StatusSubmitted, resp.Status)
		assert.Equal(t, 99.0, resp.TotalExpenses)
		assert.NotNil(t, updated)
		assert.Equal(t, originalCreatedAt, updated.CreatedAt)
		assert.Len(t, updated.ApprovalWorkflow, 2)
	})

	t.Run("rejects invalid period", func(t *testing.T) {
		deps := setupReportServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Upsert(ctx, companyID, employeeID, report.UpsertReportRequest{
			EmployeeID:  employeeID,
			PeriodYear:  2026,
			PeriodMonth: 13,
		})

		assert.ErrorIs(t, err, reporterrors.ErrInvalidPeriod)
	})

	t.Run("stages exactly one outbox event", func(t *testing.T) {
		deps := setupReportServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		_, err := deps.service.Upsert(ctx, companyID, employeeID, report.UpsertReportRequest{
			EmployeeID:  employeeID,
			PeriodYear:  2026,
			PeriodMonth: 8,
		})

		assert.NoError(t, err)
		assert.Len(t, deps.outbox.created, 1)

		var event events.ReportStatusChangedEvent
		assert.NoError(t, json.Unmarshal(deps.outbox.created[0].Payload, &event))
		assert.Equal(t, events.ActionCreate, event.Action)
		assert.Equal(t, report.StatusDraft, event.ToStatus)
		assert.Equal(t, employeeID, event.AffectedEmployeeID)
	})
}

func TestReportService_Submit(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	supervisorID := uuid.New().String()
	reportID := uuid.New().String()

	draftReport := func() *report.Report {
		return &report.Report{
			ID:         uuid.MustParse(reportID),
			CompanyID:  uuid.MustParse(companyID),
			EmployeeID: uuid.MustParse(employeeID),
			Status:     report.StatusDraft,
			ApprovalWorkflow: report.WorkflowLog{
				{Outcome: report.OutcomeCreated},
			},
		}
	}

	t.Run("routes to the owner's supervisor", func(t *testing.T) {
		deps := setupReportServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*report.Report, error) {
			return draftReport(), nil
		}
		deps.repo.getActorRefFn = func(ctx context.Context, companyID, id string) (*report.ActorRef, error) {
			return &report.ActorRef{ID: id, Role: "employee", SupervisorID: &supervisorID}, nil
		}

		resp, err := deps.service.Submit(ctx, companyID, employeeID, reportID)

		assert.NoError(t, err)
		assert.Equal(t, report.StatusSubmitted, resp.Status)
		assert.Equal(t, report.StageAwaitingSupervisor, resp.CurrentApprovalStage)
		assert.NotNil(t, resp.CurrentApproverID)
		assert.Equal(t, supervisorID, *resp.CurrentApproverID)
		assert.NotNil(t, resp.SubmittedAt)
		assert.Len(t, resp.ApprovalWorkflow, 2)
		assert.Equal(t, report.OutcomeSubmitted, resp.ApprovalWorkflow[1].Outcome)
	})

	t.Run("only the owner may submit", func(t *testing.T) {
		deps := setupReportServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		otherID := uuid.New().String()
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*report.Report, error) {
			return draftReport(), nil
		}
		deps.repo.getActorRefFn = func(ctx context.Context, companyID, id string) (*report.ActorRef, error) {
			return &report.ActorRef{ID: id, Role: "employee", SupervisorID: &supervisorID}, nil
		}

		_, err := deps.service.Submit(ctx, companyID, otherID, reportID)

		assert.ErrorIs(t, err, reporterrors.ErrNotReportOwner)
	})

	t.Run("owner without supervisor cannot submit", func(t *testing.T) {
		deps := setupReportServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*report.Report, error) {
			return draftReport(), nil
		}
		deps.repo.getActorRefFn = func(ctx context.Context, companyID, id string) (*report.ActorRef, error) {
			return &report.ActorRef{ID: id, Role: "employee"}, nil
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, reportID)

		assert.ErrorIs(t, err, reporterrors.ErrNoApproverAvailable)
	})

	t.Run("approved report cannot be resubmitted", func(t *testing.T) {
		deps := setupReportServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		rep := draftReport()
		rep.Status = report.StatusApproved
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*report.Report, error) {
			return rep, nil
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, reportID)

		assert.ErrorIs(t, err, reporterrors.ErrInvalidStatusTransition)
	})
}

func TestReportService_Approve(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	approverID := uuid.New().String()
	reportID := uuid.New().String()

	submittedReport := func() *report.Report {
		approver := uuid.MustParse(approverID)
		submittedAt := time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC)
		return &report.Report{
			ID:                   uuid.MustParse(reportID),
			CompanyID:            uuid.MustParse(companyID),
			EmployeeID:           uuid.MustParse(employeeID),
			Status:               report.StatusSubmitted,
			CurrentApprovalStage: report.StageAwaitingSupervisor,
			CurrentApproverID:    &approver,
			SubmittedAt:          &submittedAt,
			ApprovalWorkflow: report.WorkflowLog{
				{Outcome: report.OutcomeCreated},
				{Outcome: report.OutcomeSubmitted},
			},
		}
	}

	t.Run("current approver approves", func(t *testing.T) {
		deps := setupReportServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*report.Report, error) {
			return submittedReport(), nil
		}
		deps.repo.getActorRefFn = func(ctx context.Context, companyID, id string) (*report.ActorRef, error) {
			return &report.ActorRef{ID: id, Role: "supervisor"}, nil
		}

		resp, err := deps.service.Approve(ctx, companyID, approverID, reportID, "looks good")

		assert.NoError(t, err)
		assert.Equal(t, report.StatusApproved, resp.Status)
		assert.Equal(t, report.StageCompleted, resp.CurrentApprovalStage)
		assert.NotNil(t, resp.ApprovedAt)
		assert.NotNil(t, resp.ApprovedBy)
		assert.Equal(t, approverID, *resp.ApprovedBy)
		assert.Equal(t, report.OutcomeApproved, resp.ApprovalWorkflow[2].Outcome)
	})

	t.Run("double approval leaves the report untouched", func(t *testing.T) {
		deps := setupReportServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		rep := submittedReport()
		approvedAt := time.Date(2026, 8, 11, 10, 0, 0, 0, time.UTC)
		rep.Status = report.StatusApproved
		rep.ApprovedAt = &approvedAt

		updateCalled := false
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*report.Report, error) {
			return rep, nil
		}
		deps.repo.updateFn = func(ctx context.Context, r *report.Report) error {
			updateCalled = true
			return nil
		}

		_, err := deps.service.Approve(ctx, companyID, approverID, reportID, "")

		assert.ErrorIs(t, err, reporterrors.ErrInvalidStatusTransition)
		assert.False(t, updateCalled)
		assert.Equal(t, approvedAt, *rep.ApprovedAt)
		assert.Len(t, deps.outbox.created, 0)
	})

	t.Run("only the assigned approver may act after reassignment", func(t *testing.T) {
		deps := setupReportServiceTest(t)
		defer deps.db.Close()

		// The in-flight report keeps its original approver. The owner's new
		// supervisor is not the assigned approver and must be refused.
		newSupervisorID := uuid.New().String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*report.Report, error) {
			return submittedReport(), nil
		}
		deps.repo.getActorRefFn = func(ctx context.Context, companyID, id string) (*report.ActorRef, error) {
			return &report.ActorRef{ID: id, Role: "supervisor"}, nil
		}

		_, err := deps.service.Approve(ctx, companyID, newSupervisorID, reportID, "")
		assert.ErrorIs(t, err, reporterrors.ErrNotCurrentApprover)

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.Approve(ctx, companyID, approverID, reportID, "")
		assert.NoError(t, err)
		assert.Equal(t, report.StatusApproved, resp.Status)
	})

	t.Run("admin may act in place of the approver", func(t *testing.T) {
		deps := setupReportServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		adminID := uuid.New().String()
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*report.Report, error) {
			return submittedReport(), nil
		}
		deps.repo.getActorRefFn = func(ctx context.Context, companyID, id string) (*report.ActorRef, error) {
			return &report.ActorRef{ID: id, Role: "admin"}, nil
		}

		resp, err := deps.service.Approve(ctx, companyID, adminID, reportID, "")

		assert.NoError(t, err)
		assert.Equal(t, report.StatusApproved, resp.Status)
	})
}

func TestReportService_Reject(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	approverID := uuid.New().String()
	reportID := uuid.New().String()

	t.Run("reason is mandatory", func(t *testing.T) {
		deps := setupReportServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Reject(ctx, companyID, approverID, reportID, "", "")

		assert.ErrorIs(t, err, reporterrors.ErrRejectionReasonRequired)
	})

	t.Run("rejection records the reason in the audit trail", func(t *testing.T) {
		deps := setupReportServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		approver := uuid.MustParse(approverID)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*report.Report, error) {
			return &report.Report{
				ID:                   uuid.MustParse(reportID),
				CompanyID:            uuid.MustParse(companyID),
				EmployeeID:           uuid.New(),
				Status:               report.StatusSubmitted,
				CurrentApprovalStage: report.StageAwaitingSupervisor,
				CurrentApproverID:    &approver,
				ApprovalWorkflow:     report.WorkflowLog{{Outcome: report.OutcomeCreated}},
			}, nil
		}
		deps.repo.getActorRefFn = func(ctx context.Context, companyID, id string) (*report.ActorRef, error) {
			return &report.ActorRef{ID: id, Role: "supervisor"}, nil
		}

		resp, err := deps.service.Reject(ctx, companyID, approverID, reportID, "missing receipts", "")

		assert.NoError(t, err)
		assert.Equal(t, report.StatusRejected, resp.Status)
		assert.NotNil(t, resp.RejectionReason)
		assert.Equal(t, "missing receipts", *resp.RejectionReason)
		last := resp.ApprovalWorkflow[len(resp.ApprovalWorkflow)-1]
		assert.Equal(t, report.OutcomeRejected, last.Outcome)
		assert.Equal(t, "missing receipts", last.Reason)
	})
}

func TestReportService_RequestRevision(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	approverID := uuid.New().String()
	reportID := uuid.New().String()

	t.Run("keeps the current approver for the resubmit round", func(t *testing.T) {
		deps := setupReportServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		approver := uuid.MustParse(approverID)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*report.Report, error) {
			return &report.Report{
				ID:                   uuid.MustParse(reportID),
				CompanyID:            uuid.MustParse(companyID),
				EmployeeID:           uuid.New(),
				Status:               report.StatusSubmitted,
				CurrentApprovalStage: report.StageAwaitingSupervisor,
				CurrentApproverID:    &approver,
				ApprovalWorkflow:     report.WorkflowLog{{Outcome: report.OutcomeCreated}},
			}, nil
		}
		deps.repo.getActorRefFn = func(ctx context.Context, companyID, id string) (*report.ActorRef, error) {
			return &report.ActorRef{ID: id, Role: "supervisor"}, nil
		}

		resp, err := deps.service.RequestRevision(ctx, companyID, approverID, reportID, "split the travel rows")

		assert.NoError(t, err)
		assert.Equal(t, report.StatusNeedsRevision, resp.Status)
		assert.NotNil(t, resp.CurrentApproverID)
		assert.Equal(t, approverID, *resp.CurrentApproverID)
		last := resp.ApprovalWorkflow[len(resp.ApprovalWorkflow)-1]
		assert.Equal(t, report.OutcomeRevisionRequested, last.Outcome)
	})
}

func TestReportService_Delete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	reportID := uuid.New().String()

	t.Run("non-admin is refused", func(t *testing.T) {
		deps := setupReportServiceTest(t)
		defer deps.db.Close()

		deps.repo.getActorRefFn = func(ctx context.Context, companyID, id string) (*report.ActorRef, error) {
			return &report.ActorRef{ID: id, Role: "supervisor"}, nil
		}

		err := deps.service.Delete(ctx, companyID, uuid.New().String(), reportID)

		assert.ErrorIs(t, err, reporterrors.ErrDeleteForbidden)
	})

	t.Run("admin delete emits a delete event", func(t *testing.T) {
		deps := setupReportServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deleted := false
		deps.repo.getActorRefFn = func(ctx context.Context, companyID, id string) (*report.ActorRef, error) {
			return &report.ActorRef{ID: id, Role: "admin"}, nil
		}
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*report.Report, error) {
			return &report.Report{
				ID:         uuid.MustParse(reportID),
				CompanyID:  uuid.MustParse(companyID),
				EmployeeID: uuid.New(),
				Status:     report.StatusDraft,
			}, nil
		}
		deps.repo.deleteFn = func(ctx context.Context, companyID, id string) error {
			deleted = true
			return nil
		}

		err := deps.service.Delete(ctx, companyID, uuid.New().String(), reportID)

		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.Len(t, deps.outbox.created, 1)

		var event events.ReportStatusChangedEvent
		assert.NoError(t, json.Unmarshal(deps.outbox.created[0].Payload, &event))
		assert.Equal(t, events.ActionDelete, event.Action)
	})
}

func TestReportService_ListForSupervisor(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	supervisorID := uuid.New().String()

	t.Run("empty team yields an empty list", func(t *testing.T) {
		deps := setupReportServiceTest(t)
		defer deps.db.Close()

		resp, err := deps.service.ListForSupervisor(ctx, companyID, supervisorID, "")

		assert.NoError(t, err)
		assert.Empty(t, resp)
	})

	t.Run("passes the resolved team to the query", func(t *testing.T) {
		deps := setupReportServiceTest(t)
		defer deps.db.Close()

		memberA := uuid.New().String()
		memberB := uuid.New().String()
		deps.resolver.resolveSetFn = func(ctx context.Context, companyID, supervisorID string) ([]string, error) {
			return []string{memberA, memberB}, nil
		}

		var queried []string
		deps.repo.findByEmployeeIDsFn = func(ctx context.Context, companyID string, employeeIDs []string, status string) ([]report.Report, error) {
			queried = employeeIDs
			return []report.Report{}, nil
		}

		_, err := deps.service.ListForSupervisor(ctx, companyID, supervisorID, report.StatusSubmitted)

		assert.NoError(t, err)
		assert.Equal(t, []string{memberA, memberB}, queried)
	})
}
