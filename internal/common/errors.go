// Package common defines shared constants and sentinel errors used across
// client and server layers of gophauth. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level error kinds.
	ErrorConflict     = errors.New("conflicting input")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorInternal     = errors.New("internal error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// KindError carries a caller-facing message together with one of the
// service-level kinds (ErrorConflict, ErrorUnauthorized, ErrorInternal).
// errors.Is matches the kind; Error returns the message only.
type KindError struct {
	Kind    error
	Message string
}

func (e *KindError) Error() string { return e.Message }

func (e *KindError) Unwrap() error { return e.Kind }

// NewConflict reports bad input or a duplicate account.
func NewConflict(msg string) error {
	return &KindError{Kind: ErrorConflict, Message: msg}
}

// NewUnauthorized reports a failed login.
func NewUnauthorized(msg string) error {
	return &KindError{Kind: ErrorUnauthorized, Message: msg}
}

// NewInternal reports an opaque failure. msg must not contain internal details.
func NewInternal(msg string) error {
	return &KindError{Kind: ErrorInternal, Message: msg}
}

// Message returns the caller-facing text of err. For errors that are not a
// KindError the generic kind text is returned so causes never leak.
func Message(err error) string {
	var ke *KindError
	if errors.As(err, &ke) {
		return ke.Message
	}
	switch {
	case errors.Is(err, ErrorConflict):
		return ErrorConflict.Error()
	case errors.Is(err, ErrorUnauthorized):
		return ErrorUnauthorized.Error()
	}
	return ErrorInternal.Error()
}
