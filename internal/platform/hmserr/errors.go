// Package hmserr defines the error taxonomy shared by the domain services.
//
// Every operation returns one of these types (possibly wrapped) so that
// handlers can map failures to HTTP statuses and operators see messages that
// name the actual current state, not a generic "operation failed".
package hmserr

import "fmt"

// ValidationError reports malformed or incomplete input, detected before any
// state change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// NewValidation builds a ValidationError for a single field.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// NewNotFound builds a NotFoundError for the given entity kind and id.
func NewNotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// InvalidTransitionError reports a state-graph violation. Current always
// carries the state the entity was actually in when the transition was
// attempted, so the caller can decide the correct next action.
type InvalidTransitionError struct {
	Kind      string
	ID        string
	Current   string
	Attempted string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s: %s %s is %s", e.Attempted, e.Kind, e.ID, e.Current)
}

// NewInvalidTransition builds an InvalidTransitionError.
func NewInvalidTransition(kind, id, current, attempted string) *InvalidTransitionError {
	return &InvalidTransitionError{Kind: kind, ID: id, Current: current, Attempted: attempted}
}

// ConflictError reports a concurrent-write precondition failure: the entity
// was observed in the required state but another writer committed first.
type ConflictError struct {
	Kind    string
	ID      string
	Current string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s %s is %s", e.Kind, e.ID, e.Current)
}

// NewConflict builds a ConflictError.
func NewConflict(kind, id, current string) *ConflictError {
	return &ConflictError{Kind: kind, ID: id, Current: current}
}

// PermissionDenied reports an authorization gate rejection.
type PermissionDenied struct {
	Action string
}

func (e *PermissionDenied) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Action)
}

// NewPermissionDenied builds a PermissionDenied error for an action.
func NewPermissionDenied(action string) *PermissionDenied {
	return &PermissionDenied{Action: action}
}
