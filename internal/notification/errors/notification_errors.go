package notificationerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrNotificationNotFound = apperror.New(
		apperror.CodeNotFound,
		"notification not found",
		http.StatusNotFound,
	)
	ErrInvalidNotificationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid notification id",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"invalid notification status filter",
		http.StatusBadRequest,
	)
	ErrInvalidEnqueueRequest = apperror.New(
		apperror.CodeInvalidInput,
		"notification needs an employee, a message and a valid period",
		http.StatusBadRequest,
	)
	ErrStillPending = apperror.New(
		apperror.CodeInvalidState,
		"notification is still pending delivery",
		http.StatusBadRequest,
	)
)
