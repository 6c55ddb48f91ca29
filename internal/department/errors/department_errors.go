package departmenterrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"department not found",
		http.StatusNotFound,
	)
	ErrInvalidAffiliateID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid affiliate id",
		http.StatusBadRequest,
	)
	ErrAffiliateNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"affiliate not found",
		http.StatusBadRequest,
	)
	ErrNonMerbanDepartment = apperror.New(
		apperror.CodeInvalidInput,
		"departments exist only under Merban Capital",
		http.StatusBadRequest,
	)
	ErrInvalidHodID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid hod id",
		http.StatusBadRequest,
	)
)
