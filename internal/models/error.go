package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Credential store
	ErrDuplicateUser = errors.New("user name already exists")
)

// Auth workflow failure kinds. Match with errors.Is against an *AuthError.
var (
	ErrPasswordMismatch  = errors.New("password mismatch")
	ErrHashing           = errors.New("hashing error")
	ErrUserNameTaken     = errors.New("user name taken")
	ErrStorage           = errors.New("storage error")
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
)

// AuthError is the terminal failure of a registration or login workflow. Message is
// meant to be shown to the user verbatim.
type AuthError struct {
	Kind    error
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

// Unwrap exposes both the failure kind and the underlying cause to errors.Is/As.
func (e *AuthError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewAuthError builds an AuthError with a formatted message.
func NewAuthError(kind, cause error, format string, args ...any) *AuthError {
	return &AuthError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}
