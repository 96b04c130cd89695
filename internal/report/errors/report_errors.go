package reporterrors

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
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid report period, expected year and month 1-12",
		http.StatusBadRequest,
	)
	ErrReportNotFound = apperror.New(
		apperror.CodeNotFound,
		"report not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid report status transition",
		http.StatusBadRequest,
	)
	ErrNotCurrentApprover = apperror.New(
		apperror.CodeForbidden,
		"only the current approver or an administrator may act on this report",
		http.StatusForbidden,
	)
	ErrNotReportOwner = apperror.New(
		apperror.CodeForbidden,
		"only the owning employee or an administrator may submit this report",
		http.StatusForbidden,
	)
	ErrReadForbidden = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to view this report",
		http.StatusForbidden,
	)
	ErrDeleteForbidden = apperror.New(
		apperror.CodeForbidden,
		"only administrators may delete reports",
		http.StatusForbidden,
	)
	ErrInvalidSupervisorRef = apperror.New(
		apperror.CodeInvalidInput,
		"report owner has a malformed supervisor reference",
		http.StatusBadRequest,
	)
	ErrNoApproverAvailable = apperror.New(
		apperror.CodeInvalidInput,
		"report owner has no supervisor to route the report to",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required when rejecting a report",
		http.StatusBadRequest,
	)
	ErrReportPeriodConflict = apperror.New(
		apperror.CodeConflict,
		"a report for this employee and period already exists",
		http.StatusConflict,
	)
)
