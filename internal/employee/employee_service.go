package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	employeeerrors "go-expense/internal/employee/errors"
	"go-expense/internal/events"
	"go-expense/internal/hierarchy"
	"go-expense/internal/messaging/kafka"
	"go-expense/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const EmployeeOptionsKeyPrefix = "employees:options:"

func GetEmployeeOptionsKey(companyID string) string {
	return EmployeeOptionsKeyPrefix + companyID
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	ReassignSupervisor(ctx context.Context, companyID, actorID, employeeID, newSupervisorID string) (EmployeeResponse, error)
	Archive(ctx context.Context, companyID, id string) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	resolver hierarchy.Resolver
	outbox   kafka.OutboxRepository
	rdb      *redis.Client
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, resolver hierarchy.Resolver, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, resolver, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	resolver hierarchy.Resolver,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		resolver: resolver,
		outbox:   outboxRepo,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidCompanyID
	}

	supervisorID, seniorStaffID, err := s.validateSupervisionRefs(ctx, companyID, "", req.Role, req.SupervisorID, req.SeniorStaffID)
	if err != nil {
		s.logger.Warn("create employee validation failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	empl := &Employee{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		SupervisorID:  supervisorID,
		SeniorStaffID: seniorStaffID,
		FullName:      req.FullName,
		Email:         req.Email,
		Role:          req.Role,
	}

	if err := s.repo.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx, companyID)
	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested", zap.String("company_id", companyID))
	employees, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(employees), nil
}

func (s *service) GetOptions(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	cacheKey := GetEmployeeOptionsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Singleflight collapses concurrent cache fills when pickers load
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		emps, err := s.repo.FindOptionsByCompany(ctx, companyID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(emps)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)
	empl, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		s.logger.Error("get employee by id failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
		zap.String("role", req.Role),
	)

	empl, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		s.logger.Error("update employee fetch existing failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	// Supervisor changes only flow through ReassignSupervisor, which holds
	// the cycle check and emits the hierarchy event.
	if supervisorChanged(empl.SupervisorID, req.SupervisorID) {
		s.logger.Warn("update employee rejected supervisor change",
			zap.String("employee_id", id),
		)
		return EmployeeResponse{}, employeeerrors.ErrSupervisorChangeViaUpdate
	}

	supervisorID, seniorStaffID, err := s.validateSupervisionRefs(ctx, companyID, id, req.Role, req.SupervisorID, req.SeniorStaffID)
	if err != nil {
		s.logger.Warn("update employee validation failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	empl.FullName = req.FullName
	empl.Email = req.Email
	empl.Role = req.Role
	empl.SupervisorID = supervisorID
	empl.SeniorStaffID = seniorStaffID
	empl.Archived = req.Archived

	if err := s.repo.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx, companyID)
	s.logger.Info("update employee success", zap.String("employee_id", id))

	return mapToResponse(*empl), nil
}

// ReassignSupervisor moves an employee under a new supervisor. Reports already
// submitted keep their original approver; only future submissions route to the
// new supervisor.
func (s *service) ReassignSupervisor(ctx context.Context, companyID, actorID, employeeID, newSupervisorID string) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("reassign supervisor requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("employee_id", employeeID),
		zap.String("new_supervisor_id", newSupervisorID),
	)

	if _, err := uuid.Parse(companyID); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidActorID
	}
	newSupervisorUUID, err := uuid.Parse(newSupervisorID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidSupervisorID
	}
	if employeeID == newSupervisorID {
		return EmployeeResponse{}, employeeerrors.ErrSelfSupervision
	}

	actor, err := s.repo.FindByIDAndCompany(ctx, companyID, actorID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if actor.Role != RoleAdmin {
		s.logger.Warn("reassign supervisor forbidden",
			zap.String("actor_id", actorID),
			zap.String("actor_role", actor.Role),
		)
		return EmployeeResponse{}, employeeerrors.ErrReassignForbidden
	}

	// The new supervisor must not already be supervised by the employee,
	// otherwise the reassignment closes a cycle in the reports-to tree.
	supervised, err := s.resolver.ResolveSupervisedSet(ctx, companyID, employeeID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	for _, id := range supervised {
		if id == newSupervisorID {
			return EmployeeResponse{}, employeeerrors.ErrSupervisionCycle
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reassign supervisor begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := qtx.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if _, err := qtx.FindByIDAndCompany(ctx, companyID, newSupervisorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrSupervisorNotFound
		}
		return EmployeeResponse{}, err
	}
	if empl.SeniorStaffID != nil && *empl.SeniorStaffID == newSupervisorUUID {
		return EmployeeResponse{}, employeeerrors.ErrSeniorStaffEqualsSupervisor
	}

	var oldSupervisorID *string
	if empl.SupervisorID != nil {
		v := empl.SupervisorID.String()
		oldSupervisorID = &v
	}

	empl.SupervisorID = &newSupervisorUUID

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("reassign supervisor persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	event := events.SupervisorReassignedEvent{
		EventType:          "supervisor_reassigned",
		RequestID:          rid,
		EntityType:         "employee",
		Action:             events.ActionUpdate,
		EntityID:           employeeID,
		AffectedEmployeeID: employeeID,
		CompanyID:          companyID,
		OldSupervisorID:    oldSupervisorID,
		NewSupervisorID:    newSupervisorID,
		OccurredAt:         time.Now().UTC(),
	}
	if s.outbox != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "employee",
			AggregateID:   employeeID,
			EventType:     event.EventType,
			Topic:         events.HierarchyChangedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("reassign supervisor outbox persist failed",
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("reassign supervisor commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx, companyID)
	s.logger.Info("reassign supervisor success",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("new_supervisor_id", newSupervisorID),
	)

	return mapToResponse(*empl), nil
}

func (s *service) Archive(ctx context.Context, companyID, id string) error {
	if err := s.repo.Archive(ctx, companyID, id); err != nil {
		s.logger.Error("archive employee failed", zap.String("employee_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx, companyID)
	s.logger.Info("archive employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) validateSupervisionRefs(
	ctx context.Context,
	companyID, employeeID, role string,
	rawSupervisorID, rawSeniorStaffID *string,
) (*uuid.UUID, *uuid.UUID, error) {
	var supervisorID *uuid.UUID
	if rawSupervisorID != nil && *rawSupervisorID != "" {
		parsed, err := uuid.Parse(*rawSupervisorID)
		if err != nil {
			return nil, nil, employeeerrors.ErrInvalidSupervisorID
		}
		if employeeID != "" && *rawSupervisorID == employeeID {
			return nil, nil, employeeerrors.ErrSelfSupervision
		}
		if _, err := s.repo.FindByIDAndCompany(ctx, companyID, *rawSupervisorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, employeeerrors.ErrSupervisorNotFound
			}
			return nil, nil, err
		}
		supervisorID = &parsed
	} else if role != RoleAdmin {
		// Only chain roots (admins) may have no supervisor
		return nil, nil, employeeerrors.ErrSupervisorRequired
	}

	var seniorStaffID *uuid.UUID
	if rawSeniorStaffID != nil && *rawSeniorStaffID != "" {
		parsed, err := uuid.Parse(*rawSeniorStaffID)
		if err != nil {
			return nil, nil, employeeerrors.ErrInvalidEmployeeID
		}
		if supervisorID != nil && parsed == *supervisorID {
			return nil, nil, employeeerrors.ErrSeniorStaffEqualsSupervisor
		}
		seniorStaffID = &parsed
	}

	return supervisorID, seniorStaffID, nil
}

func supervisorChanged(current *uuid.UUID, requested *string) bool {
	have := ""
	if current != nil {
		have = current.String()
	}
	want := ""
	if requested != nil {
		want = *requested
	}
	return have != want
}

func (s *service) invalidateOptionsCache(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetEmployeeOptionsKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:        e.ID.String(),
		CompanyID: e.CompanyID.String(),
		FullName:  e.FullName,
		Email:     e.Email,
		Role:      e.Role,
		Archived:  e.Archived,
	}
	if e.SupervisorID != nil {
		v := e.SupervisorID.String()
		resp.SupervisorID = &v
	}
	if e.SeniorStaffID != nil {
		v := e.SeniorStaffID.String()
		resp.SeniorStaffID = &v
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp
}
