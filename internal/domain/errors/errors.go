// Package errors defines the application error model. Services return these
// values; the HTTP error handler reads the interface to pick the status and
// the body, so no other layer needs to know about HTTP.
package errors

import (
	"net/http"

	"github.com/pkg/errors"
)

// AppError is the contract between the domain and the delivery layer: any
// error implementing it renders with its own status code and stable error
// code instead of a generic 500.
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Stable machine-readable code
	Message() string   // User-facing message
	Details() string   // Optional human detail
}

// BaseError is the value form of AppError used for the predefined errors
// below. Values are shared; WithDetails copies before mutating.
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage annotates the error with internal context. The annotation is
// for logs; errors.As still finds the BaseError underneath, so the client
// response is unchanged.
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Input validation
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Invalid input",
		"",
	)

	// Registration / account state
	ErrEmailTaken = NewBaseError(
		http.StatusConflict,
		"EMAIL_TAKEN",
		"This email address is already registered",
		"",
	)

	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"User not found",
		"",
	)

	// Login and session
	// Deliberately undifferentiated: "no such user" and "wrong password"
	// must produce the same outcome to resist account enumeration.
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Incorrect email or password",
		"",
	)

	ErrUnauthorized = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHORIZED",
		"You must be signed in to do that",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"Could not process the password",
		"",
	)

	// Email verification
	ErrTokenNotFound = NewBaseError(
		http.StatusNotFound,
		"TOKEN_NOT_FOUND",
		"Verification link is invalid or has already been used",
		"",
	)

	ErrTokenExpired = NewBaseError(
		http.StatusGone,
		"TOKEN_EXPIRED",
		"Verification link has expired",
		"",
	)

	// Mail transport
	ErrMailerNotConfigured = NewBaseError(
		http.StatusInternalServerError,
		"MAILER_NOT_CONFIGURED",
		"Email delivery is not configured",
		"",
	)

	ErrMailDeliveryFailed = NewBaseError(
		http.StatusInternalServerError,
		"MAIL_DELIVERY_FAILED",
		"Could not send the email",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"Access denied",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)

	ErrConflict = NewBaseError(
		http.StatusConflict,
		"CONFLICT",
		"Resource conflict",
		"",
	)
)

// DatabaseExecuteError wraps an unexpected database failure as an AppError.
// The driver error stays inside for the logs; clients see a fixed message.
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database operation failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
