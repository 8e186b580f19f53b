package deductionerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrDeductionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Deduction not found",
		http.StatusNotFound,
	)
	ErrDeductionCodeExists = apperror.New(
		apperror.CodeConflict,
		"Deduction with the same code already exists",
		http.StatusConflict,
	)
	ErrInvalidDeductionID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid deduction ID",
		http.StatusBadRequest,
	)
	ErrInvalidPercentage = apperror.New(
		apperror.CodeInvalidInput,
		"Percentage must be greater than 0 and at most 100 with two decimal places",
		http.StatusBadRequest,
	)
	ErrInvalidName = apperror.New(
		apperror.CodeInvalidInput,
		"Deduction name cannot be blank",
		http.StatusBadRequest,
	)
	ErrEmptyUpdate = apperror.New(
		apperror.CodeInvalidInput,
		"Nothing to update",
		http.StatusBadRequest,
	)
)
