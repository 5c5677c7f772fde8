package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	errs "github.com/matzehuels/epicflow/pkg/errors"
)

// ErrorBody is the JSON envelope of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failed request.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// statusError forces a status that the error code alone does not imply.
type statusError struct {
	status int
	err    *errs.Error
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

func notFound(format string, args ...any) error {
	return errs.New(errs.ErrCodeNotFound, format, args...)
}

func methodNotAllowed(method, path string) error {
	return &statusError{
		status: http.StatusMethodNotAllowed,
		err:    errs.New(errs.ErrCodeUnsupported, "method %s not allowed for %s", method, path),
	}
}

// classify returns the status, code and client-facing message for err.
// Internal errors are reported without their message.
func classify(err error) (int, errs.Code, string) {
	var se *statusError
	if errors.As(err, &se) {
		return se.status, se.err.Code, se.err.Message
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return http.StatusRequestEntityTooLarge, errs.ErrCodeInvalidInput,
			fmt.Sprintf("request body exceeds %d bytes", mbe.Limit)
	}
	if errors.Is(err, context.DeadlineExceeded) && errs.GetCode(err) == "" {
		return http.StatusGatewayTimeout, errs.ErrCodeTimeout, "request timed out"
	}

	code := errs.GetCode(err)
	if code == "" || code == errs.ErrCodeInternal {
		return http.StatusInternalServerError, errs.ErrCodeInternal, "internal error"
	}
	return errs.HTTPStatus(err), code, errs.UserMessage(err)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestID(r.Context()))
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "err", err, "request_id", RequestID(r.Context()))
	}

	var rl *errs.RateLimitedError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter))
	}
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{
		Code:      string(code),
		Message:   msg,
		RequestID: RequestID(r.Context()),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// decodeJSON reads a single JSON object from the request body. Unknown
// fields are rejected so that typos in option names do not pass silently.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.As(err, &mbe):
			return err
		case errors.Is(err, io.EOF):
			return errs.New(errs.ErrCodeInvalidInput, "request body is empty")
		default:
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "malformed request body: %v", err)
		}
	}
	if dec.More() {
		return errs.New(errs.ErrCodeInvalidInput, "request body must hold a single JSON object")
	}
	return nil
}
