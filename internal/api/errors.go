package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"hackorsnooze/internal/domain"
)

// StatusError is a non-2xx answer from the API. It unwraps to the domain
// sentinel the status maps to, so callers match with errors.Is.
type StatusError struct {
	Op      string
	Status  int
	Message string
	Kind    error
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %v (HTTP %d)", e.Op, e.Kind, e.Status)
	}
	return fmt.Sprintf("%s: %v: %s (HTTP %d)", e.Op, e.Kind, e.Message, e.Status)
}

func (e *StatusError) Unwrap() error { return e.Kind }

// statusMap overrides the default classification for one operation.
type statusMap map[int]error

var defaultStatuses = statusMap{
	http.StatusBadRequest:          domain.ErrValidationRejected,
	http.StatusUnauthorized:        domain.ErrUnauthenticated,
	http.StatusForbidden:           domain.ErrUnauthenticated,
	http.StatusNotFound:            domain.ErrNotFound,
	http.StatusConflict:            domain.ErrValidationRejected,
	http.StatusUnprocessableEntity: domain.ErrValidationRejected,
}

var (
	signupStatuses = statusMap{
		http.StatusConflict: domain.ErrUsernameTaken,
	}
	loginStatuses = statusMap{
		http.StatusUnauthorized: domain.ErrInvalidCredentials,
		http.StatusNotFound:     domain.ErrInvalidCredentials,
	}
	profileStatuses = statusMap{
		http.StatusBadRequest:   domain.ErrInvalidSession,
		http.StatusUnauthorized: domain.ErrInvalidSession,
		http.StatusForbidden:    domain.ErrInvalidSession,
		http.StatusNotFound:     domain.ErrInvalidSession,
	}
)

// classify maps status onto the domain taxonomy. 5xx and unknown statuses
// are treated as the remote being unavailable.
func classify(status int, overrides statusMap) error {
	if kind, ok := overrides[status]; ok {
		return kind
	}
	if status >= http.StatusInternalServerError {
		return domain.ErrRemoteUnavailable
	}
	if kind, ok := defaultStatuses[status]; ok {
		return kind
	}
	return domain.ErrRemoteUnavailable
}

// statusError reads the API error body, if any, and builds a StatusError.
func statusError(op string, resp *http.Response, overrides statusMap) error {
	msg := resp.Status
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var env errorEnvelope
	if json.Unmarshal(raw, &env) == nil && env.Error.Message != "" {
		msg = env.Error.Message
	} else if s := strings.TrimSpace(string(raw)); s != "" && len(s) < 200 {
		msg = s
	}
	return &StatusError{
		Op:      op,
		Status:  resp.StatusCode,
		Message: msg,
		Kind:    classify(resp.StatusCode, overrides),
	}
}
