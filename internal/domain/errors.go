package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is wrapped by every missing-record error.
	ErrNotFound = errors.New("record not found")

	// ErrStoreUnavailable marks failures of the store or directory collaborators.
	// It is the only error class callers may retry.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrIncompleteSelection is returned when a booking is composed with nothing selected.
	ErrIncompleteSelection = errors.New("no services selected")

	// ErrCapacityExceeded is returned when a stylist's daily workload would be exceeded.
	ErrCapacityExceeded = errors.New("stylist workload capacity exceeded")

	// ErrCannotReschedule is returned for appointments past the confirmed stage.
	ErrCannotReschedule = errors.New("appointment cannot be rescheduled in its current status")

	// ErrIllegalTransition matches every IllegalTransitionError.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrValidation matches every ValidationError.
	ErrValidation = errors.New("validation failed")
)

// FieldIssue is one field-level validation error or warning.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldIssue) String() string {
	return f.Field + ": " + f.Message
}

// ValidationError carries the hard errors that blocked a write.
type ValidationError struct {
	Errors []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, issue := range e.Errors {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// HasField reports whether any error names field.
func (e *ValidationError) HasField(field string) bool {
	for _, issue := range e.Errors {
		if issue.Field == field {
			return true
		}
	}
	return false
}

// IllegalTransitionError is returned when a status change is not in the transition table.
type IllegalTransitionError struct {
	From AppointmentStatus
	To   AppointmentStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrIllegalTransition, e.From, e.To)
}

func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

// IsRetryable reports whether err may be retried with backoff.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
