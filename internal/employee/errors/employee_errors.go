package employeeerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same email already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown employee role",
		http.StatusBadRequest,
	)
	ErrInvalidAffiliateID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid affiliate ID",
		http.StatusBadRequest,
	)
	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid department ID",
		http.StatusBadRequest,
	)
	ErrInvalidManagerID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid manager ID",
		http.StatusBadRequest,
	)
	ErrDepartmentNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"SDSL and SBL employees cannot belong to a department",
		http.StatusBadRequest,
	)
	ErrManagerNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"SDSL and SBL employees cannot have a direct manager",
		http.StatusBadRequest,
	)
	ErrDepartmentAffiliateMismatch = apperror.New(
		apperror.CodeInvalidInput,
		"Department does not belong to the employee's affiliate",
		http.StatusBadRequest,
	)
)
