package apperror

import (
	"errors"
	"fmt"
)

// Error kinds. Every error surfaced to a user wraps exactly one of these.
var (
	ErrValidation        = errors.New("validation error")
	ErrDuplicateIdentity = errors.New("duplicate identity")
	ErrNotConfirmed      = errors.New("account not confirmed")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrAIUnavailable     = errors.New("ai service unavailable")
	ErrAIRequestFailed   = errors.New("ai request failed")
	ErrRequestPending    = errors.New("request already pending")
)

// AppError carries a kind, a human-readable message and optionally the
// offending input field.
type AppError struct {
	Err     error
	Message string
	Field   string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Duplicate(field, message string) *AppError {
	return &AppError{
		Err:     ErrDuplicateIdentity,
		Message: message,
		Field:   field,
	}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// Forbidden is returned by feature gates and usage limits.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// AIFailed wraps the underlying collaborator error so it stays inspectable.
func AIFailed(err error) *AppError {
	return &AppError{
		Err:     errors.Join(ErrAIRequestFailed, err),
		Message: fmt.Sprintf("ai request failed: %v", err),
	}
}

// Kind returns the sentinel kind wrapped by err, or nil for unclassified
// errors.
func Kind(err error) error {
	for _, kind := range []error{
		ErrValidation,
		ErrDuplicateIdentity,
		ErrNotConfirmed,
		ErrNotFound,
		ErrForbidden,
		ErrUnauthenticated,
		ErrAIUnavailable,
		ErrAIRequestFailed,
		ErrRequestPending,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
