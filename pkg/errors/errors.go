// Package errors defines the coded errors shared by the epicflow CLI, the
// pipeline and the HTTP API.
//
// Every failure a user can act on carries a [Code]. The API reports the code
// in its error envelope and derives the status from it with [HTTPStatus];
// the CLI prints [UserMessage] and picks a hint by code.
//
// Codes group by prefix:
//   - INVALID_*: rejected input, such as a malformed epic or config
//   - *_NOT_FOUND: a missing issue, epic, file or snapshot
//   - NETWORK_ERROR, TIMEOUT, RATE_LIMITED: GitHub could not be reached
//   - INTERNAL_ERROR: a bug, never shown to API clients verbatim
//
// # Usage
//
//	if n == id {
//	    return errs.New(errs.ErrCodeInvalidEpic, "task #%d depends on itself", n)
//	}
//	...
//	return errs.Wrap(errs.ErrCodeNetwork, err, "fetch %s", ref)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidEpic   Code = "INVALID_EPIC"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidRepo   Code = "INVALID_REPO"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeEpicNotFound  Code = "EPIC_NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeIssueNotFound Code = "ISSUE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Authentication errors
	ErrCodeUnauthorized Code = "UNAUTHORIZED"
	ErrCodeForbidden    Code = "FORBIDDEN"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// statusByCode is the HTTP status for each code. Codes not listed map to 500.
var statusByCode = map[Code]int{
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeInvalidEpic:   http.StatusBadRequest,
	ErrCodeInvalidFormat: http.StatusBadRequest,
	ErrCodeInvalidConfig: http.StatusBadRequest,
	ErrCodeInvalidRepo:   http.StatusBadRequest,
	ErrCodeInvalidPath:   http.StatusBadRequest,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeEpicNotFound:  http.StatusNotFound,
	ErrCodeFileNotFound:  http.StatusNotFound,
	ErrCodeIssueNotFound: http.StatusNotFound,
	ErrCodeRateLimited:   http.StatusTooManyRequests,
	ErrCodeUnauthorized:  http.StatusUnauthorized,
	ErrCodeForbidden:     http.StatusForbidden,
	ErrCodeTimeout:       http.StatusGatewayTimeout,
	ErrCodeNetwork:       http.StatusBadGateway,
	ErrCodeUnsupported:   http.StatusNotImplemented,
}

// Error is a failure with a code, a message for the user and an optional
// cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an [Error] with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an [Error] with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// coder is implemented by error types that carry a code without being an
// [Error], such as [RateLimitedError].
type coder interface {
	Code() Code
}

// GetCode returns the code of the outermost coded error in err's chain, or
// "" when there is none.
func GetCode(err error) Code {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case coder:
			return e.Code()
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// Is reports whether err carries code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// UserMessage returns the message of the outermost [Error] in err's chain
// without its code prefix, or err.Error() when there is none.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err to the status the API server responds with. Errors
// without a code are internal errors.
func HTTPStatus(err error) int {
	if status, ok := statusByCode[GetCode(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// RateLimitedError is returned when GitHub refuses a request for exceeding
// its rate limit. RetryAfter is in seconds; zero means GitHub gave no hint.
type RateLimitedError struct {
	RetryAfter int
	Message    string
}

func (e *RateLimitedError) Error() string {
	msg := "rate limited"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %ds)", e.RetryAfter)
	}
	return msg
}

// Code implements coder.
func (e *RateLimitedError) Code() Code { return ErrCodeRateLimited }
