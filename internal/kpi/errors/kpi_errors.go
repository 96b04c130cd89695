package kpierrors

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
	ErrInvalidSupervisorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid supervisor id",
		http.StatusBadRequest,
	)
	ErrSupervisorNotFound = apperror.New(
		apperror.CodeNotFound,
		"supervisor not found",
		http.StatusNotFound,
	)
	ErrSnapshotForbidden = apperror.New(
		apperror.CodeForbidden,
		"you may only view your own team metrics",
		http.StatusForbidden,
	)
)
