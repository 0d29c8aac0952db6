// Package apperrors defines the sentinel errors shared by the service and
// handler layers. Handlers translate these into HTTP statuses and
// user-facing messages; services wrap them with %w so callers can match
// with errors.Is.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced group, membership, message or
	// profile does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNotAuthorized means the caller lacks rights for the operation.
	ErrNotAuthorized = errors.New("not authorized")

	// Join request state conflicts.
	ErrAlreadyMember  = errors.New("already a member of this group")
	ErrRequestPending = errors.New("join request is pending approval")
	ErrNotMember      = errors.New("not a member of this group")

	// ErrGroupFull means accepting another member would exceed the
	// group's max participant count.
	ErrGroupFull = errors.New("group is at maximum capacity")

	// Creator-protection invariants.
	ErrCreatorCannotLeave  = errors.New("creator cannot leave the group")
	ErrCannotRemoveCreator = errors.New("cannot remove the group creator")

	// Messaging failures.
	ErrEmptyContent = errors.New("message content is empty")
	ErrRateLimited  = errors.New("message rate limit exceeded")

	// ErrTransient marks timeouts and connectivity failures that the
	// caller may retry with backoff, unlike business-rule failures.
	ErrTransient = errors.New("transient storage error")
)

// ValidationError reports malformed input on a specific field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError for a field.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
