package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/nochase/nochase/internal/model"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrNotFoundOrForbidden    = errors.New("goal not found")
	ErrStoreFailure           = errors.New("store failure")
	ErrValidation             = errors.New("validation failed")
)

// StatusError is a non-2xx answer from the store. It unwraps to one of the
// package sentinels so callers can match with errors.Is.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
	kind       error
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (HTTP %d)", e.kind, e.StatusCode)
	}
	return fmt.Sprintf("%s (HTTP %d): %s", e.kind, e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.kind
}

// kindFor picks the sentinel for a response. The body's code wins over the
// status so proxies that rewrite statuses do not change the meaning.
func kindFor(status int, code string) error {
	switch code {
	case model.CodeAuthenticationRequired:
		return ErrAuthenticationRequired
	case model.CodeNotFound:
		return ErrNotFoundOrForbidden
	case model.CodeValidationFailed:
		return ErrValidation
	}

	switch status {
	case http.StatusUnauthorized:
		return ErrAuthenticationRequired
	case http.StatusForbidden, http.StatusNotFound:
		return ErrNotFoundOrForbidden
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	default:
		return ErrStoreFailure
	}
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var apiErr model.APIError
	_ = json.Unmarshal(body, &apiErr)

	return &StatusError{
		StatusCode: resp.StatusCode,
		Code:       apiErr.Code,
		Message:    apiErr.Message,
		kind:       kindFor(resp.StatusCode, apiErr.Code),
	}
}
