package interruptionerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrInterruptionNotFound = apperror.New(
		apperror.CodeNotFound,
		"interruption request not found",
		http.StatusNotFound,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrParentNotApproved = apperror.New(
		apperror.CodeInvalidState,
		"only an approved leave can be interrupted",
		http.StatusConflict,
	)
	ErrResumeOutsideLeave = apperror.New(
		apperror.CodeInvalidInput,
		"requested_resume_date must fall within the leave period",
		http.StatusBadRequest,
	)
	ErrNoCreditableDays = apperror.New(
		apperror.CodeInvalidInput,
		"requested resume date yields no creditable working days",
		http.StatusBadRequest,
	)
	ErrAlreadyInterrupted = apperror.New(
		apperror.CodeConflict,
		"leave already carries an applied interruption",
		http.StatusConflict,
	)
	ErrInterruptionInFlight = apperror.New(
		apperror.CodeConflict,
		"an open interruption already exists for this leave",
		http.StatusConflict,
	)
	ErrNotAuthorizedToInitiate = apperror.New(
		apperror.CodeForbidden,
		"actor may not initiate a recall for this employee",
		http.StatusForbidden,
	)
	ErrNotReturnOwner = apperror.New(
		apperror.CodeForbidden,
		"only the employee on leave may request an early return",
		http.StatusForbidden,
	)
	ErrNotRecallTarget = apperror.New(
		apperror.CodeForbidden,
		"only the employee on leave may decide a recall",
		http.StatusForbidden,
	)
	ErrNotAuthorizedToDecide = apperror.New(
		apperror.CodeForbidden,
		"actor cannot act on this interruption at its current stage",
		http.StatusForbidden,
	)
	ErrInterruptionClosed = apperror.New(
		apperror.CodeInvalidState,
		"interruption request is already in a terminal status",
		http.StatusConflict,
	)
	ErrUnresolvedAffiliate = apperror.New(
		apperror.CodeInvalidInput,
		"employee affiliate cannot be resolved, request is unroutable",
		http.StatusBadRequest,
	)
	ErrNoteRequired = apperror.New(
		apperror.CodeInvalidInput,
		"note is required when rejecting",
		http.StatusBadRequest,
	)
)
