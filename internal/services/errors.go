package services

import (
	"errors"
	"fmt"
)

// Reset protocol error codes. Handlers map these onto HTTP statuses; the
// service layer never speaks HTTP.
const (
	ResetNoActiveRequest = "no_active_request"
	ResetExpired         = "expired"
	ResetInvalidCode     = "invalid_code"
	ResetTooManyAttempts = "too_many_attempts"
	ResetSessionInvalid  = "session_invalid"
)

// Sentinel errors shared across services.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrNeedsSubscription  = errors.New("premium subscription required")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NotFoundError marks a missing domain entity.
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func NewNotFoundError(entity string, id interface{}) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %v", e.Entity, e.ID)
}

// AuthProtocolError is a password-reset protocol failure. Code is one of the
// Reset* constants; Message is safe to return to the client.
type AuthProtocolError struct {
	Code    string
	Message string
}

func NewAuthProtocolError(code, message string) *AuthProtocolError {
	return &AuthProtocolError{Code: code, Message: message}
}

func (e *AuthProtocolError) Error() string {
	return fmt.Sprintf("reset protocol: %s", e.Code)
}

// DependencyError wraps a failure in an external system (payment gateway,
// mail relay, broker).
type DependencyError struct {
	System string
	Err    error
}

func NewDependencyError(system string, err error) *DependencyError {
	return &DependencyError{System: system, Err: err}
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.System, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsAuthProtocol extracts an AuthProtocolError if err is one.
func AsAuthProtocol(err error) (*AuthProtocolError, bool) {
	var pe *AuthProtocolError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsDependency reports whether err is a DependencyError.
func IsDependency(err error) bool {
	var de *DependencyError
	return errors.As(err, &de)
}
