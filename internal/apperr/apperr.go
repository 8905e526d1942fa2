// Package apperr defines the error taxonomy returned by services and
// translated to HTTP responses by the api package.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindMissingToken
	KindInvalidToken
	KindForbidden
	KindNotFound
	KindConflict
	KindExpired
	KindMinAmount
)

// Error is a classified failure with a client-safe message and a stable code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindConflict, KindExpired, KindMinAmount:
		return http.StatusBadRequest
	case KindAuth, KindMissingToken:
		return http.StatusUnauthorized
	case KindInvalidToken, KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: message}
}

func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Code: "INVALID_CREDENTIALS", Message: message}
}

func MissingToken() *Error {
	return &Error{Kind: KindMissingToken, Code: "MISSING_TOKEN", Message: "Missing token"}
}

func InvalidToken(err error) *Error {
	return &Error{Kind: KindInvalidToken, Code: "INVALID_TOKEN", Message: "Invalid token", Err: err}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: "FORBIDDEN", Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Code: "CONFLICT", Message: message}
}

func Expired(message string) *Error {
	return &Error{Kind: KindExpired, Code: "COUPON_EXPIRED", Message: message}
}

func MinAmount(message string) *Error {
	return &Error{Kind: KindMinAmount, Code: "COUPON_MIN_AMOUNT", Message: message}
}

// Internal hides err from the client behind message.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: message, Err: err}
}

// WithCode overrides the machine-readable code.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// From classifies any error; unclassified errors become internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
