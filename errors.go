package toolrun

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrorCategory classifies provider errors by how a caller should react.
type ErrorCategory string

const (
	// ErrorTransient marks a failure that may succeed on a later attempt:
	// rate limits, overloaded or failing servers.
	ErrorTransient ErrorCategory = "transient"
	// ErrorPermanent marks a failure no retry can fix, such as a bad API key.
	ErrorPermanent ErrorCategory = "permanent"
	// ErrorUserInput marks a request the provider rejected as malformed.
	ErrorUserInput ErrorCategory = "user_input"
)

// CategorizedError is implemented by provider errors that know their category.
type CategorizedError interface {
	error
	Category() ErrorCategory
	StatusCode() int
	RetryAfter() time.Duration
}

// Error is the categorized error returned by the provider adapters.
type Error struct {
	Msg        string
	Cat        ErrorCategory
	Code       int
	RetryDelay time.Duration
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

func (e *Error) Unwrap() error             { return e.Cause }
func (e *Error) Category() ErrorCategory   { return e.Cat }
func (e *Error) StatusCode() int           { return e.Code }
func (e *Error) RetryAfter() time.Duration { return e.RetryDelay }

// NewError creates a categorized error.
func NewError(cat ErrorCategory, msg string, code int, cause error) *Error {
	return &Error{Msg: msg, Cat: cat, Code: code, Cause: cause}
}

// NewTransientError creates a transient error.
func NewTransientError(msg string, code int, cause error) *Error {
	return NewError(ErrorTransient, msg, code, cause)
}

// NewPermanentError creates a permanent error.
func NewPermanentError(msg string, code int, cause error) *Error {
	return NewError(ErrorPermanent, msg, code, cause)
}

// NewUserInputError creates a user input error.
func NewUserInputError(msg string, code int, cause error) *Error {
	return NewError(ErrorUserInput, msg, code, cause)
}

// CategoryForStatus maps an HTTP status code to an error category.
// Unknown codes are permanent.
func CategoryForStatus(code int) ErrorCategory {
	switch {
	case code == http.StatusTooManyRequests, code >= 500 && code < 600:
		return ErrorTransient
	case code == http.StatusBadRequest, code == http.StatusNotFound,
		code == http.StatusRequestEntityTooLarge, code == http.StatusUnprocessableEntity:
		return ErrorUserInput
	default:
		return ErrorPermanent
	}
}

// StatusError builds the categorized error for a failed HTTP exchange with a
// provider. header may be nil; when it carries Retry-After the delay is kept
// and the error is transient regardless of code.
func StatusError(provider Provider, code int, header http.Header, cause error) *Error {
	msg := fmt.Sprintf("%s: status %d", provider, code)
	e := NewError(CategoryForStatus(code), msg, code, cause)
	if delay := parseRetryAfter(header); delay > 0 {
		e.Cat = ErrorTransient
		e.RetryDelay = delay
	}
	return e
}

// parseRetryAfter reads Retry-After as seconds or an HTTP date.
func parseRetryAfter(header http.Header) time.Duration {
	v := header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(v); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func categoryOf(err error) (CategorizedError, bool) {
	var ce CategorizedError
	ok := errors.As(err, &ce)
	return ce, ok
}

// IsTransient reports whether err wraps a transient categorized error.
func IsTransient(err error) bool {
	ce, ok := categoryOf(err)
	return ok && ce.Category() == ErrorTransient
}

// IsPermanent reports whether err wraps a permanent categorized error.
func IsPermanent(err error) bool {
	ce, ok := categoryOf(err)
	return ok && ce.Category() == ErrorPermanent
}

// IsUserInput reports whether err wraps a user input categorized error.
func IsUserInput(err error) bool {
	ce, ok := categoryOf(err)
	return ok && ce.Category() == ErrorUserInput
}

// StatusCodeOf returns the HTTP status code carried by err, or 0.
func StatusCodeOf(err error) int {
	if ce, ok := categoryOf(err); ok {
		return ce.StatusCode()
	}
	return 0
}

// RetryAfterOf returns the server-suggested retry delay carried by err, or 0.
func RetryAfterOf(err error) time.Duration {
	if ce, ok := categoryOf(err); ok {
		return ce.RetryAfter()
	}
	return 0
}
