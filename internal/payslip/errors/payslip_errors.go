package paysliperrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidPayslipID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payslip id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid period, month must be 1-12 and year 1900-9999",
		http.StatusBadRequest,
	)
	ErrApproverRequired = apperror.New(
		apperror.CodeUnauthorized,
		"approver identity is required",
		http.StatusUnauthorized,
	)
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"payslip not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrPayslipExists = apperror.New(
		apperror.CodeConflict,
		"payslip already exists for this employee and period",
		http.StatusConflict,
	)
	ErrMissingRate = apperror.New(
		apperror.CodeConfiguration,
		"deduction catalog is missing required codes",
		http.StatusInternalServerError,
	)
	ErrGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"payslip generation failed",
		http.StatusInternalServerError,
	)
	ErrApproveAllFailed = apperror.New(
		apperror.CodeInternalError,
		"no payslip in the period could be approved",
		http.StatusInternalServerError,
	)
	ErrRenderPDF = apperror.New(
		apperror.CodeInternalError,
		"failed to render payslip pdf",
		http.StatusInternalServerError,
	)
)
