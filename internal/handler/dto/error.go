package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	}

	switch {
	// Chore errors
	case errors.Is(err, domain.ErrChoreNotFound):
		return http.StatusNotFound, "CHORE_NOT_FOUND", message
	case errors.Is(err, domain.ErrAlreadyClaimed):
		return http.StatusConflict, "ALREADY_CLAIMED", message
	case errors.Is(err, domain.ErrAlreadyApproved):
		return http.StatusConflict, "ALREADY_APPROVED", message
	case errors.Is(err, domain.ErrNotClaimed):
		return http.StatusConflict, "NOT_CLAIMED", message
	case errors.Is(err, domain.ErrNoRecurrence):
		return http.StatusUnprocessableEntity, "NO_RECURRENCE", message
	case errors.Is(err, domain.ErrDueDateInPast):
		return http.StatusUnprocessableEntity, "DUE_DATE_IN_PAST", message
	case errors.Is(err, domain.ErrSharedDueDate):
		return http.StatusUnprocessableEntity, "SHARED_DUE_DATE", message
	case errors.Is(err, domain.ErrNegativePoints):
		return http.StatusUnprocessableEntity, "NEGATIVE_POINTS", message

	// Assignee errors
	case errors.Is(err, domain.ErrNotAssigned):
		return http.StatusConflict, "NOT_ASSIGNED", message
	case errors.Is(err, domain.ErrNotAuthorized):
		return http.StatusForbidden, "NOT_AUTHORIZED", message
	case errors.Is(err, domain.ErrAssigneeNotFound):
		return http.StatusNotFound, "ASSIGNEE_NOT_FOUND", message
	case errors.Is(err, domain.ErrAssigneeInactive):
		return http.StatusUnauthorized, "ASSIGNEE_INACTIVE", message
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "INVALID_TOKEN", message

	// Record errors
	case errors.Is(err, domain.ErrRecordRetired):
		return http.StatusConflict, "RECORD_RETIRED", message

	// Default: internal server error
	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
