package leaveerrors

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
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrNoWorkingDays = apperror.New(
		apperror.CodeInvalidInput,
		"requested period contains no working days",
		http.StatusBadRequest,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the requester or an admin may do this",
		http.StatusForbidden,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave already exists in overlapping period",
		http.StatusConflict,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeConflict,
		"insufficient leave balance for requested period",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrRequestClosed = apperror.New(
		apperror.CodeInvalidState,
		"leave request is already in a terminal status",
		http.StatusConflict,
	)
	ErrNotAuthorizedToApprove = apperror.New(
		apperror.CodeForbidden,
		"actor cannot act on this request at its current stage",
		http.StatusForbidden,
	)
	ErrAlreadyActedOn = apperror.New(
		apperror.CodeConflict,
		"actor has already approved an earlier stage of this request",
		http.StatusConflict,
	)
	ErrUnresolvedAffiliate = apperror.New(
		apperror.CodeInvalidInput,
		"employee affiliate cannot be resolved, request is unroutable",
		http.StatusBadRequest,
	)
	ErrOnlyPendingCancellable = apperror.New(
		apperror.CodeInvalidState,
		"only a pending request can be cancelled",
		http.StatusConflict,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection_reason is required when rejecting",
		http.StatusBadRequest,
	)
	ErrResumeBeforeEnd = apperror.New(
		apperror.CodeInvalidInput,
		"resume_date must be on or after the leave end_date",
		http.StatusBadRequest,
	)
	ErrResumeRequiresApproved = apperror.New(
		apperror.CodeInvalidState,
		"resume can only be recorded on an approved leave",
		http.StatusConflict,
	)
)
