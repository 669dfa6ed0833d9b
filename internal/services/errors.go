package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrAuthRequired       = errors.New("authentication required")
	ErrForbiddenRole      = errors.New("action not available for this account role")
	ErrGeneration         = errors.New("generation failed")
	ErrPersistence        = errors.New("persistence failed")
	ErrNotLastSection     = errors.New("submit is only available from the last section")
	ErrSubmitBlocked      = errors.New("profile has validation errors")
	ErrDispatcherStopped  = errors.New("write dispatcher stopped")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

func invalidRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// GenerationError wraps an upstream model failure or a response with the wrong shape.
type GenerationError struct {
	Flow string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Flow, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGeneration }

// PersistenceError is delivered through a PendingWrite and the ErrorBus,
// never returned from the call that dispatched the write.
type PersistenceError struct {
	Op         WriteOp
	OwnerID    string
	DocumentID string
	Err        error
}

func (e *PersistenceError) Error() string {
	if e.DocumentID != "" {
		return fmt.Sprintf("%s %s for owner %s: %v", e.Op, e.DocumentID, e.OwnerID, e.Err)
	}
	return fmt.Sprintf("%s for owner %s: %v", e.Op, e.OwnerID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
