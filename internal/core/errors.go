// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrInvalidReference = errors.New("referenced record not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("token invalid")
	ErrTokenRevoked     = errors.New("token revoked")
)

const (
	MsgUnauthorized      = "Unauthorized"
	MsgForbidden         = "Forbidden"
	MsgNotFound          = "Record not found"
	MsgDuplicateEntry    = "Duplicate entry"
	MsgEmailExists       = "Email already exists"
	MsgInvalidReference  = "Related record not found"
	MsgInvalidBody       = "Invalid request body"
	MsgInternalError     = "Internal server error"
	MsgTooManyRequests   = "Too many requests"
	MsgInvalidCredential = "Invalid email or password"
)

// ConflictError reports a unique constraint violation. Field is the column
// the constraint covers, or empty when it cannot be identified.
type ConflictError struct {
	Field      string
	Constraint string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("unique constraint %q violated", e.Constraint)
	}
	return fmt.Sprintf("duplicate value for %s", e.Field)
}

func (e *ConflictError) Unwrap() error {
	return ErrDuplicateKey
}

// ValidationError carries a message that is safe to return to the caller
// verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Invalid(message string) error {
	return &ValidationError{Message: message}
}

// ValidationMessage returns the caller-facing message of a ValidationError
// anywhere in err's chain.
func ValidationMessage(err error) (string, bool) {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return "", false
	}
	return ve.Message, true
}
