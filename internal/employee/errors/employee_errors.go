package employeeerrors

import (
	"net/http"

	"go-expense/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidSupervisorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid supervisor id",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrSupervisorNotFound = apperror.New(
		apperror.CodeNotFound,
		"supervisor not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"employee with this email already exists",
		http.StatusConflict,
	)
	ErrSupervisorRequired = apperror.New(
		apperror.CodeInvalidInput,
		"supervisor_id is required for non-admin employees",
		http.StatusBadRequest,
	)
	ErrSelfSupervision = apperror.New(
		apperror.CodeInvalidInput,
		"an employee cannot be their own supervisor",
		http.StatusBadRequest,
	)
	ErrSupervisionCycle = apperror.New(
		apperror.CodeInvalidInput,
		"reassignment would make the supervisor report to their own supervisee",
		http.StatusBadRequest,
	)
	ErrSeniorStaffEqualsSupervisor = apperror.New(
		apperror.CodeInvalidInput,
		"senior_staff_id must differ from supervisor_id",
		http.StatusBadRequest,
	)
	ErrSupervisorChangeViaUpdate = apperror.New(
		apperror.CodeInvalidInput,
		"supervisor_id cannot be changed on update; use the supervisor reassignment endpoint",
		http.StatusBadRequest,
	)
	ErrReassignForbidden = apperror.New(
		apperror.CodeForbidden,
		"only administrators may reassign supervisors",
		http.StatusForbidden,
	)
)
