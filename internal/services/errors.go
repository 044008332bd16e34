package services

import (
	"errors"
	"fmt"

	"medivault-server/internal/policy"
	"medivault-server/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = utils.ErrInvalidToken
	ErrForbidden          = policy.ErrForbidden
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
)

// Refinements of ErrInvalidInput.
var (
	ErrMissingField  = fmt.Errorf("%w: missing field", ErrInvalidInput)
	ErrInvalidFormat = fmt.Errorf("%w: invalid format", ErrInvalidInput)
	ErrInvalidRange  = fmt.Errorf("%w: invalid range", ErrInvalidInput)
	ErrInvalidStatus = fmt.Errorf("%w: invalid status", ErrInvalidInput)
	ErrInvalidRole   = fmt.Errorf("%w: invalid role", ErrInvalidInput)
)

// Error carries a caller-facing message for one of the kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func fail(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
