package models

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or missing input. Nothing is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// AuthorizationError means the viewer's role may not perform the action.
type AuthorizationError struct {
	Role   Role
	Action string
	Reason string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("role %q may not %s: %s", e.Role, e.Action, e.Reason)
}

// NotFoundError covers a missing session as well as a missing record.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// SideEffectError is a failed alert or message write during emergency handling.
// It is reported alongside the primary result, never instead of it.
type SideEffectError struct {
	Effect string
	Target string
	Err    error
}

func (e *SideEffectError) Error() string {
	return fmt.Sprintf("side effect %s for %s failed: %v", e.Effect, e.Target, e.Err)
}

func (e *SideEffectError) Unwrap() error {
	return e.Err
}

// StoreError wraps a persistence read or write failure.
type StoreError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

func IsSideEffect(err error) bool {
	var se *SideEffectError
	return errors.As(err, &se)
}

func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
