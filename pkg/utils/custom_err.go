package utils

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrForbidden           = errors.New("forbidden")
	ErrAccountNotApproved  = errors.New("account not approved")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrValidation          = errors.New("validation failed")
	ErrDatabaseError       = errors.New("database error")
	ErrAttachmentStore     = errors.New("attachment store error")
	ErrInvalidPage         = errors.New("invalid page parameter")
	ErrInvalidPageSize     = errors.New("invalid page size parameter")
	ErrUnscopedOwnerFilter = errors.New("list query is not scoped to an owner")
)

// ServiceError attaches a user-facing message to one of the sentinel kinds above.
// Status is only set for approval failures and carries the account status.
type ServiceError struct {
	Kind    error
	Message string
	Status  string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Kind
}

func NewServiceError(kind error, message string) *ServiceError {
	return &ServiceError{Kind: kind, Message: message}
}

func Unauthenticated(message string) error { return NewServiceError(ErrUnauthenticated, message) }
func Forbidden(message string) error       { return NewServiceError(ErrForbidden, message) }
func NotFound(message string) error        { return NewServiceError(ErrNotFound, message) }
func Conflict(message string) error        { return NewServiceError(ErrConflict, message) }
func Validation(message string) error      { return NewServiceError(ErrValidation, message) }

// DatabaseError wraps a store failure so it is logged in full but surfaced generically.
func DatabaseError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrDatabaseError, err)
}
