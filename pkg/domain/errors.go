package domain

import (
	"errors"
	"fmt"
	"strings"
)

// FieldViolation reports a single failed field rule.
type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError aggregates every violated field rule for a candidate
// payload. It is never retried automatically.
type ValidationError struct {
	Entity     EntityType
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field)
	}
	return fmt.Sprintf("%s validation failed: %s", e.Entity, strings.Join(fields, ", "))
}

// HasField reports whether the error names the given field.
func (e *ValidationError) HasField(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// NewValidationError wraps violations for an entity, or returns nil when the
// payload is clean.
func NewValidationError(entity EntityType, violations []FieldViolation) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Entity: entity, Violations: violations}
}

// NotFoundError is returned when a referenced entity does not exist.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError reports a uniqueness, immutability, or balance invariant that
// the requested mutation would violate. The caller must resubmit with
// corrected input.
type ConflictError struct {
	Entity  EntityType
	ID      string
	Message string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, e.Message)
}

// AuthenticationError indicates no resolvable caller identity. Terminal for
// the request.
type AuthenticationError struct {
	Reason string
}

func (e AuthenticationError) Error() string {
	return "authentication failed: " + e.Reason
}

// AuthorizationError indicates the caller lacks permission on the target
// entity. Terminal for the request.
type AuthorizationError struct {
	MemberID  string
	Operation string
	Reason    string
}

func (e AuthorizationError) Error() string {
	return fmt.Sprintf("member %s not authorized for %s: %s", e.MemberID, e.Operation, e.Reason)
}

// StorageUnavailableError wraps a transient infrastructure failure. Safe to
// retry with backoff since no partial mutation is observable.
type StorageUnavailableError struct {
	Op  string
	Err error
}

func (e StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
}

func (e StorageUnavailableError) Unwrap() error { return e.Err }

// Retryable reports whether the error is safe to retry. Only storage
// unavailability qualifies; every other kind requires caller action.
func Retryable(err error) bool {
	var storage StorageUnavailableError
	return errors.As(err, &storage)
}
