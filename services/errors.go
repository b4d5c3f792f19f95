package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrorKind is the stable category of a ServiceError.
type ErrorKind string

const (
	KindNotFound       ErrorKind = "not_found"
	KindNoActiveDevice ErrorKind = "no_active_device"
	KindInvalidStatus  ErrorKind = "invalid_status"
	KindUnauthorized   ErrorKind = "unauthorized"
	KindForbidden      ErrorKind = "forbidden"
	KindValidation     ErrorKind = "validation"
	KindConflict       ErrorKind = "conflict"
	KindStorage        ErrorKind = "storage"
)

// ServiceError is returned by every service operation. Two ServiceErrors
// match under errors.Is when their kinds are equal.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotFound       = &ServiceError{Kind: KindNotFound, Message: "Not found"}
	ErrTableNotFound  = &ServiceError{Kind: KindNotFound, Message: "Table not found"}
	ErrNoActiveDevice = &ServiceError{Kind: KindNoActiveDevice, Message: "No active device found for user"}
	ErrInvalidStatus  = &ServiceError{Kind: KindInvalidStatus, Message: "Invalid status"}
	ErrUnauthorized   = &ServiceError{Kind: KindUnauthorized, Message: "Authentication required"}
	ErrForbidden      = &ServiceError{Kind: KindForbidden, Message: "You do not have permission"}
)

func notFound(what string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: what + " not found"}
}

func validationError(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func conflictError(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// storageError wraps a store failure. Already classified errors pass
// through unchanged.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return err
	}
	return &ServiceError{Kind: KindStorage, Message: op, Err: err}
}

// lookupError maps a missing record to kind not_found and anything else to
// a storage error.
func lookupError(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(what)
	}
	return storageError("load "+what, err)
}

// KindOf returns the kind of err, or KindStorage for unclassified errors.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindStorage
}
