package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Workflow error codes. Preconditions are checked before any mutation,
// so an error carrying one of these codes implies no state change.
const (
	CodeInvalidTransition        = "INVALID_TRANSITION"
	CodeInvalidMessageAction     = "INVALID_MESSAGE_ACTION"
	CodeTicketNotOpenForMessages = "TICKET_NOT_OPEN_FOR_MESSAGES"
	CodeNoMediatorAssigned       = "NO_MEDIATOR_ASSIGNED"
	CodeMembershipViolation      = "MEMBERSHIP_VIOLATION"
	CodePersistenceFailure       = "PERSISTENCE_FAILURE"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewInvalidTransition(message string, details map[string]any) error {
	return NewDomainError(CodeInvalidTransition, message, http.StatusConflict, details)
}

func NewInvalidMessageAction(message string, details map[string]any) error {
	return NewDomainError(CodeInvalidMessageAction, message, http.StatusConflict, details)
}

func NewTicketNotOpenForMessages(status string) error {
	return NewDomainError(CodeTicketNotOpenForMessages, "ticket is not open for messages", http.StatusConflict,
		map[string]any{"status": status})
}

func NewNoMediatorAssigned(projectID string) error {
	return NewDomainError(CodeNoMediatorAssigned, "project has no mediator", http.StatusConflict,
		map[string]any{"project_id": projectID})
}

func NewMembershipViolation(message string, details map[string]any) error {
	return NewDomainError(CodeMembershipViolation, message, http.StatusConflict, details)
}

func NewPersistenceFailure(err error) error {
	return &DomainError{
		Code:       CodePersistenceFailure,
		Message:    "durable write failed; revert any optimistic update",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}

// CodeOf returns the DomainError code, or empty for non-domain errors.
func CodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}
