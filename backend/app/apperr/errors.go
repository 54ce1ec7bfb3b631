// Package apperr holds the error kinds shared by the services and the HTTP
// layer. Every kind is an oops error carrying one of the codes below; the
// HTTP layer maps codes to status codes and caller-facing messages.
package apperr

import (
	"net/http"

	"github.com/samber/oops"
)

// Error codes.
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeUniqueViolation    = "UNIQUE_VIOLATION"
	CodeRangeViolation     = "RANGE_VIOLATION"
	CodeValidation         = "VALIDATION"
	CodeTooManyAttempts    = "TOO_MANY_ATTEMPTS"
	CodeInternal           = "INTERNAL"
)

var codes = []string{
	CodeInvalidCredentials,
	CodeUnauthorized,
	CodeTokenExpired,
	CodeForbidden,
	CodeNotFound,
	CodeUniqueViolation,
	CodeRangeViolation,
	CodeValidation,
	CodeTooManyAttempts,
	CodeInternal,
}

func InvalidCredentials() error {
	return oops.Code(CodeInvalidCredentials).Errorf("invalid credentials")
}

// Unauthorized wraps cause (may be nil) as a missing, malformed or unknown-subject token.
func Unauthorized(cause error) error {
	b := oops.Code(CodeUnauthorized)
	if cause != nil {
		return b.Wrapf(cause, "could not validate credentials")
	}
	return b.Errorf("could not validate credentials")
}

func TokenExpired(cause error) error {
	b := oops.Code(CodeTokenExpired)
	if cause != nil {
		return b.Wrapf(cause, "token has expired")
	}
	return b.Errorf("token has expired")
}

// Forbidden carries a caller-facing message.
func Forbidden(message string) error {
	return oops.Code(CodeForbidden).With("message", message).Errorf("%s", message)
}

func NotFound(message string) error {
	return oops.Code(CodeNotFound).With("message", message).Errorf("%s", message)
}

func UniqueViolation(message string, cause error) error {
	b := oops.Code(CodeUniqueViolation).With("message", message)
	if cause != nil {
		return b.Wrap(cause)
	}
	return b.Errorf("%s", message)
}

func RangeViolation(field string, value int) error {
	return oops.Code(CodeRangeViolation).
		With("field", field).
		With("value", value).
		Errorf("%s=%d outside [0,20]", field, value)
}

func Validation(message string) error {
	return oops.Code(CodeValidation).With("message", message).Errorf("%s", message)
}

func TooManyAttempts() error {
	return oops.Code(CodeTooManyAttempts).Errorf("too many failed login attempts")
}

// Internal wraps an unexpected store or runtime failure.
func Internal(op string, cause error) error {
	return oops.Code(CodeInternal).With("operation", op).Wrap(cause)
}

// CodeOf returns the error's code, or CodeInternal for errors without one.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return CodeInternal
	}
	for _, c := range codes {
		if oopsErr.Code() == c {
			return c
		}
	}
	return CodeInternal
}

// Is reports whether err carries code.
func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch CodeOf(err) {
	case CodeInvalidCredentials, CodeUnauthorized, CodeTokenExpired:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUniqueViolation:
		return http.StatusConflict
	case CodeRangeViolation, CodeValidation:
		return http.StatusBadRequest
	case CodeTooManyAttempts:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Message extracts the caller-facing message from an error.
func Message(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return "An internal server error occurred."
	}
	switch CodeOf(err) {
	case CodeInvalidCredentials:
		return "Invalid credentials"
	case CodeUnauthorized:
		return "Could not validate credentials"
	case CodeTokenExpired:
		return "Token has expired"
	case CodeRangeViolation:
		return "Grade value exceeds the allowed range (0-20)."
	case CodeTooManyAttempts:
		return "Too many failed login attempts. Try again later."
	case CodeForbidden, CodeNotFound, CodeUniqueViolation, CodeValidation:
		if msg, ok := oopsErr.Context()["message"].(string); ok && msg != "" {
			return msg
		}
		return "Request rejected"
	default:
		return "An internal server error occurred."
	}
}
