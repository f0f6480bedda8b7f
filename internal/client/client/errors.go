package client

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/mailcal/internal/common"
)

// APIError is returned for non-2xx responses and for transport failures.
// Transport failures carry Status 0.
type APIError struct {
	Status     int
	StatusText string
	Message    string
	// Err is the underlying transport error, if any.
	Err error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (e *APIError) sentinel() error {
	switch e.Status {
	case 0, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return common.ErrUnavailable
	case http.StatusUnauthorized, http.StatusForbidden:
		return common.ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrNotFound
	}
	return nil
}

func newStatusError(status int, detail string) *APIError {
	text := http.StatusText(status)
	msg := "api error: " + text
	if detail != "" {
		msg += ": " + detail
	}
	return &APIError{Status: status, StatusText: text, Message: msg}
}

func newNetworkError(err error) *APIError {
	return &APIError{Message: fmt.Sprintf("network error: %v", err), Err: err}
}

// ValidationError reports a response body that did not match the expected
// shape: malformed JSON or a failed field constraint.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid response from %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{common.ErrValidation, e.Err}
}
