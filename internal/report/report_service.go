package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-expense/internal/events"
	"go-expense/internal/hierarchy"
	"go-expense/internal/messaging/kafka"
	reporterrors "go-expense/internal/report/errors"
	"go-expense/internal/shared/contextutil"
	"go-expense/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	Upsert(ctx context.Context, companyID, actorID string, req UpsertReportRequest) (ReportResponse, error)
	GetByID(ctx context.Context, companyID, actorID, id string) (ReportResponse, error)
	ListByEmployee(ctx context.Context, companyID, actorID, employeeID string) ([]ReportResponse, error)
	ListForSupervisor(ctx context.Context, companyID, supervisorID, status string) ([]ReportResponse, error)
	Submit(ctx context.Context, companyID, actorID, id string) (ReportResponse, error)
	Approve(ctx context.Context, companyID, actorID, id, comments string) (ReportResponse, error)
	Reject(ctx context.Context, companyID, actorID, id, reason, comments string) (ReportResponse, error)
	RequestRevision(ctx context.Context, companyID, actorID, id, comments string) (ReportResponse, error)
	Delete(ctx context.Context, companyID, actorID, id string) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	resolver hierarchy.Resolver
	counter  counter.Repository
	outbox   kafka.OutboxRepository
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, resolver hierarchy.Resolver, counterRepo counter.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, resolver, counterRepo, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	resolver hierarchy.Resolver,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		resolver: resolver,
		counter:  counterRepo,
		outbox:   outboxRepo,
		logger:   l,
	}
}

// isAllowedStatusTransition is the whole transition table. Upsert is handled
// separately because it never changes status.
func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	switch NormalizeStatus(currentStatus) {
	case StatusDraft:
		return targetStatus == StatusSubmitted
	case StatusSubmitted:
		return targetStatus == StatusApproved ||
			targetStatus == StatusRejected ||
			targetStatus == StatusNeedsRevision
	case StatusNeedsRevision:
		return targetStatus == StatusSubmitted || targetStatus == StatusNeedsRevision
	default:
		return false
	}
}

// Upsert creates a draft for a new (employee, period) natural key or merges
// mutable fields into the existing row. The original CreatedAt and the
// approval history always survive a re-upsert.
func (s *service) Upsert(ctx context.Context, companyID, actorID string, req UpsertReportRequest) (ReportResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("upsert report requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("period_year", req.PeriodYear),
		zap.Int("period_month", req.PeriodMonth),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return ReportResponse{}, reporterrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ReportResponse{}, reporterrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return ReportResponse{}, reporterrors.ErrInvalidEmployeeID
	}
	if req.PeriodYear < 2000 || req.PeriodMonth < 1 || req.PeriodMonth > 12 || req.PeriodSubNumber < 0 {
		return ReportResponse{}, reporterrors.ErrInvalidPeriod
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("upsert report begin tx failed", zap.Error(err))
		return ReportResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByNaturalKey(ctx, companyID, req.EmployeeID, req.PeriodYear, req.PeriodMonth, req.PeriodSubNumber)
	if err != nil {
		s.logger.Error("upsert report natural key lookup failed", zap.Error(err))
		return ReportResponse{}, err
	}

	now := time.Now().UTC()

	if existing != nil {
		// Last writer wins on mutable fields; identity, status, history and
		// CreatedAt are preserved from the original row.
		existing.ReportData = req.ReportData
		if req.Comments != "" {
			existing.Comments = req.Comments
		}

		if err := qtx.Update(ctx, existing); err != nil {
			s.logger.Error("upsert report merge persist failed", zap.Error(err))
			return ReportResponse{}, mapRepositoryError(err)
		}

		if err := s.stageEvent(ctx, tx, rid, existing, events.ActionUpdate, "", ""); err != nil {
			return ReportResponse{}, err
		}

		if err := tx.Commit(); err != nil {
			s.logger.Error("upsert report commit failed", zap.Error(err))
			return ReportResponse{}, err
		}

		s.logger.Info("upsert report merged",
			zap.String("request_id", rid),
			zap.String("report_id", existing.ID.String()),
		)
		return mapToResponse(*existing), nil
	}

	reportNumber := ""
	if s.counter != nil {
		nextVal, err := s.counter.GetNextValue(ctx, companyID, "report_number")
		if err != nil {
			s.logger.Error("upsert report generate number failed", zap.Error(err))
			return ReportResponse{}, err
		}
		reportNumber = fmt.Sprintf("RPT-%06d", nextVal)
	}

	rep := &Report{
		ID:              uuid.New(),
		CompanyID:       companyUUID,
		EmployeeID:      employeeUUID,
		ReportNumber:    reportNumber,
		PeriodYear:      req.PeriodYear,
		PeriodMonth:     req.PeriodMonth,
		PeriodSubNumber: req.PeriodSubNumber,
		Status:          StatusDraft,
		ReportData:      req.ReportData,
		Comments:        req.Comments,
		ApprovalWorkflow: WorkflowLog{{
			Stage:      StatusDraft,
			Outcome:    OutcomeCreated,
			ActorID:    actorUUID.String(),
			OccurredAt: now,
		}},
	}

	if err := qtx.Create(ctx, rep); err != nil {
		s.logger.Error("upsert report persist failed", zap.Error(err))
		return ReportResponse{}, mapRepositoryError(err)
	}

	if err := s.stageEvent(ctx, tx, rid, rep, events.ActionCreate, "", StatusDraft); err != nil {
		return ReportResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("upsert report commit failed", zap.Error(err))
		return ReportResponse{}, err
	}

	s.logger.Info("upsert report created",
		zap.String("request_id", rid),
		zap.String("report_id", rep.ID.String()),
		zap.String("report_number", rep.ReportNumber),
	)
	return mapToResponse(*rep), nil
}

func (s *service) GetByID(ctx context.Context, companyID, actorID, id string) (ReportResponse, error) {
	rep, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ReportResponse{}, mapRepositoryError(err)
	}

	allowed, err := s.canView(ctx, companyID, actorID, rep)
	if err != nil {
		return ReportResponse{}, err
	}
	if !allowed {
		return ReportResponse{}, reporterrors.ErrReadForbidden
	}

	return mapToResponse(*rep), nil
}

func (s *service) ListByEmployee(ctx context.Context, companyID, actorID, employeeID string) ([]ReportResponse, error) {
	if actorID != employeeID {
		allowed, err := s.supervises(ctx, companyID, actorID, employeeID)
		if err != nil {
			return nil, err
		}
		if !allowed {
			actor, err := s.repo.GetActorRef(ctx, companyID, actorID)
			if err != nil {
				return nil, mapActorLookupError(err)
			}
			if !isPrivilegedRole(actor.Role) {
				return nil, reporterrors.ErrReadForbidden
			}
		}
	}

	reports, err := s.repo.FindByEmployeeAndCompany(ctx, companyID, employeeID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(reports), nil
}

// ListForSupervisor returns reports owned by the supervisor's transitive
// team, optionally filtered by status. An unknown supervisor simply has an
// empty team.
func (s *service) ListForSupervisor(ctx context.Context, companyID, supervisorID, status string) ([]ReportResponse, error) {
	supervised, err := s.resolver.ResolveSupervisedSet(ctx, companyID, supervisorID)
	if err != nil {
		return nil, err
	}

	reports, err := s.repo.FindByEmployeeIDs(ctx, companyID, supervised, status)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(reports), nil
}

func (s *service) Submit(ctx context.Context, companyID, actorID, id string) (ReportResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit report requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("report_id", id),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ReportResponse{}, reporterrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit report begin tx failed", zap.Error(err))
		return ReportResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rep, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ReportResponse{}, mapRepositoryError(err)
	}

	fromStatus := NormalizeStatus(rep.Status)
	if !isAllowedStatusTransition(fromStatus, StatusSubmitted) {
		s.logger.Warn("submit report invalid transition",
			zap.String("report_id", id),
			zap.String("from_status", fromStatus),
		)
		return ReportResponse{}, reporterrors.ErrInvalidStatusTransition
	}

	actor, err := qtx.GetActorRef(ctx, companyID, actorID)
	if err != nil {
		return ReportResponse{}, mapActorLookupError(err)
	}
	if rep.EmployeeID != actorUUID && actor.Role != "admin" {
		return ReportResponse{}, reporterrors.ErrNotReportOwner
	}

	owner, err := qtx.GetActorRef(ctx, companyID, rep.EmployeeID.String())
	if err != nil {
		return ReportResponse{}, mapActorLookupError(err)
	}
	if owner.SupervisorID == nil || *owner.SupervisorID == "" {
		return ReportResponse{}, reporterrors.ErrNoApproverAvailable
	}
	approverUUID, err := uuid.Parse(*owner.SupervisorID)
	if err != nil {
		return ReportResponse{}, reporterrors.ErrInvalidSupervisorRef
	}

	now := time.Now().UTC()
	rep.Status = StatusSubmitted
	rep.CurrentApprovalStage = StageAwaitingSupervisor
	rep.CurrentApproverID = &approverUUID
	rep.SubmittedAt = &now
	rep.SubmittedBy = &actorUUID
	rep.ApprovalWorkflow = append(rep.ApprovalWorkflow, WorkflowEntry{
		Stage:      StageAwaitingSupervisor,
		Outcome:    OutcomeSubmitted,
		ActorID:    actorID,
		OccurredAt: now,
	})

	if err := qtx.Update(ctx, rep); err != nil {
		s.logger.Error("submit report persist failed", zap.String("report_id", id), zap.Error(err))
		return ReportResponse{}, mapRepositoryError(err)
	}

	if err := s.stageEvent(ctx, tx, rid, rep, events.ActionUpdate, fromStatus, StatusSubmitted); err != nil {
		return ReportResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit report commit failed", zap.String("report_id", id), zap.Error(err))
		return ReportResponse{}, err
	}

	s.logger.Info("submit report success",
		zap.String("request_id", rid),
		zap.String("report_id", id),
		zap.String("approver_id", approverUUID.String()),
	)
	return mapToResponse(*rep), nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id, comments string) (ReportResponse, error) {
	return s.review(ctx, companyID, actorID, id, StatusApproved, "", comments)
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id, reason, comments string) (ReportResponse, error) {
	if reason == "" {
		return ReportResponse{}, reporterrors.ErrRejectionReasonRequired
	}
	return s.review(ctx, companyID, actorID, id, StatusRejected, reason, comments)
}

func (s *service) RequestRevision(ctx context.Context, companyID, actorID, id, comments string) (ReportResponse, error) {
	return s.review(ctx, companyID, actorID, id, StatusNeedsRevision, "", comments)
}

// review applies one reviewer transition (approve / reject / request
// revision) with shared authorization and audit handling.
func (s *service) review(ctx context.Context, companyID, actorID, id, targetStatus, reason, comments string) (ReportResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("review report requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("report_id", id),
		zap.String("target_status", targetStatus),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ReportResponse{}, reporterrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("review report begin tx failed", zap.Error(err))
		return ReportResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rep, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ReportResponse{}, mapRepositoryError(err)
	}

	fromStatus := NormalizeStatus(rep.Status)
	if !isAllowedStatusTransition(fromStatus, targetStatus) {
		s.logger.Warn("review report invalid transition",
			zap.String("report_id", id),
			zap.String("from_status", fromStatus),
			zap.String("to_status", targetStatus),
		)
		return ReportResponse{}, reporterrors.ErrInvalidStatusTransition
	}

	actor, err := qtx.GetActorRef(ctx, companyID, actorID)
	if err != nil {
		return ReportResponse{}, mapActorLookupError(err)
	}
	isCurrentApprover := rep.CurrentApproverID != nil && *rep.CurrentApproverID == actorUUID
	if !isCurrentApprover && actor.Role != "admin" {
		s.logger.Warn("review report forbidden",
			zap.String("report_id", id),
			zap.String("actor_id", actorID),
			zap.String("actor_role", actor.Role),
		)
		return ReportResponse{}, reporterrors.ErrNotCurrentApprover
	}

	now := time.Now().UTC()
	rep.Status = targetStatus
	rep.ReviewedAt = &now
	rep.ReviewedBy = &actorUUID
	if comments != "" {
		rep.Comments = comments
	}

	entry := WorkflowEntry{
		Stage:      rep.CurrentApprovalStage,
		ActorID:    actorID,
		Comments:   comments,
		OccurredAt: now,
	}

	switch targetStatus {
	case StatusApproved:
		rep.ApprovedAt = &now
		rep.ApprovedBy = &actorUUID
		rep.CurrentApprovalStage = StageCompleted
		entry.Outcome = OutcomeApproved
	case StatusRejected:
		rep.RejectedAt = &now
		rep.RejectedBy = &actorUUID
		rep.RejectionReason = &reason
		rep.CurrentApprovalStage = StageCompleted
		entry.Outcome = OutcomeRejected
		entry.Reason = reason
	case StatusNeedsRevision:
		// CurrentApproverID stays put so the employee sees who asked
		entry.Outcome = OutcomeRevisionRequested
	}

	rep.ApprovalWorkflow = append(rep.ApprovalWorkflow, entry)

	if err := qtx.Update(ctx, rep); err != nil {
		s.logger.Error("review report persist failed",
			zap.String("report_id", id),
			zap.String("target_status", targetStatus),
			zap.Error(err),
		)
		return ReportResponse{}, mapRepositoryError(err)
	}

	if err := s.stageEvent(ctx, tx, rid, rep, events.ActionUpdate, fromStatus, targetStatus); err != nil {
		return ReportResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("review report commit failed", zap.String("report_id", id), zap.Error(err))
		return ReportResponse{}, err
	}

	s.logger.Info("review report success",
		zap.String("request_id", rid),
		zap.String("report_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*rep), nil
}

// Delete is the administrative override, not part of the workflow.
func (s *service) Delete(ctx context.Context, companyID, actorID, id string) error {
	rid := contextutil.GetRequestID(ctx)

	actor, err := s.repo.GetActorRef(ctx, companyID, actorID)
	if err != nil {
		return mapActorLookupError(err)
	}
	if actor.Role != "admin" {
		return reporterrors.ErrDeleteForbidden
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rep, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := s.stageEvent(ctx, tx, rid, rep, events.ActionDelete, NormalizeStatus(rep.Status), ""); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("delete report success",
		zap.String("request_id", rid),
		zap.String("report_id", id),
		zap.String("actor_id", actorID),
	)
	return nil
}

func (s *service) canView(ctx context.Context, companyID, actorID string, rep *Report) (bool, error) {
	if rep.EmployeeID.String() == actorID {
		return true, nil
	}
	if rep.CurrentApproverID != nil && rep.CurrentApproverID.String() == actorID {
		return true, nil
	}

	actor, err := s.repo.GetActorRef(ctx, companyID, actorID)
	if err != nil {
		return false, mapActorLookupError(err)
	}
	if isPrivilegedRole(actor.Role) {
		return true, nil
	}

	return s.supervises(ctx, companyID, actorID, rep.EmployeeID.String())
}

func (s *service) supervises(ctx context.Context, companyID, supervisorID, employeeID string) (bool, error) {
	supervised, err := s.resolver.ResolveSupervisedSet(ctx, companyID, supervisorID)
	if err != nil {
		return false, err
	}
	for _, id := range supervised {
		if id == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func isPrivilegedRole(role string) bool {
	return role == "admin" || role == "finance"
}

func mapActorLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reporterrors.ErrInvalidActorID
	}
	return err
}

// stageEvent writes the change event into the outbox inside the mutation's
// transaction, so an emission exists exactly when the mutation commits.
func (s *service) stageEvent(ctx context.Context, tx *sql.Tx, rid string, rep *Report, action, fromStatus, toStatus string) error {
	if s.outbox == nil {
		return nil
	}

	event := events.ReportStatusChangedEvent{
		EventType:          "report_status_changed",
		RequestID:          rid,
		EntityType:         "report",
		Action:             action,
		EntityID:           rep.ID.String(),
		AffectedEmployeeID: rep.EmployeeID.String(),
		CompanyID:          rep.CompanyID.String(),
		FromStatus:         fromStatus,
		ToStatus:           toStatus,
		OccurredAt:         time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "report",
		AggregateID:   rep.ID.String(),
		EventType:     event.EventType,
		Topic:         events.ReportLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("report outbox persist failed",
			zap.String("report_id", rep.ID.String()),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func mapToResponse(r Report) ReportResponse {
	resp := ReportResponse{
		ID:                   r.ID.String(),
		CompanyID:            r.CompanyID.String(),
		EmployeeID:           r.EmployeeID.String(),
		ReportNumber:         r.ReportNumber,
		PeriodYear:           r.PeriodYear,
		PeriodMonth:          r.PeriodMonth,
		PeriodSubNumber:      r.PeriodSubNumber,
		Status:               NormalizeStatus(r.Status),
		CurrentApprovalStage: r.CurrentApprovalStage,
		ReportData:           r.ReportData,
		TotalExpenses:        r.ReportData.TotalExpenses(),
		ApprovalWorkflow:     r.ApprovalWorkflow,
		Comments:             r.Comments,
		CreatedAt:            r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            r.UpdatedAt.Format(time.RFC3339),
	}
	if r.CurrentApproverID != nil {
		v := r.CurrentApproverID.String()
		resp.CurrentApproverID = &v
	}
	resp.SubmittedAt = formatTimePtr(r.SubmittedAt)
	resp.ReviewedAt = formatTimePtr(r.ReviewedAt)
	resp.ApprovedAt = formatTimePtr(r.ApprovedAt)
	resp.RejectedAt = formatTimePtr(r.RejectedAt)
	if r.SubmittedBy != nil {
		v := r.SubmittedBy.String()
		resp.SubmittedBy = &v
	}
	if r.ReviewedBy != nil {
		v := r.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if r.ApprovedBy != nil {
		v := r.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if r.RejectedBy != nil {
		v := r.RejectedBy.String()
		resp.RejectedBy = &v
	}
	resp.RejectionReason = r.RejectionReason

	return resp
}

func mapToListResponse(reports []Report) []ReportResponse {
	resp := make([]ReportResponse, len(reports))
	for i, r := range reports {
		resp[i] = mapToResponse(r)
	}
	return resp
}
