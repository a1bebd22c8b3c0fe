package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/nochase/nochase/internal/model"
	"github.com/nochase/nochase/internal/repository"
	"github.com/nochase/nochase/internal/service"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, model.APIError{Message: message, Code: code})
}

// writeServiceError translates service and repository errors to HTTP.
// Anything unrecognised is a store failure and is logged.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrAuthenticationRequired):
		writeError(w, http.StatusUnauthorized, model.CodeAuthenticationRequired, "authentication required")
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, model.CodeValidationFailed, err.Error())
	case errors.Is(err, repository.ErrGoalNotFound), errors.Is(err, service.ErrResourceNotFound):
		writeError(w, http.StatusNotFound, model.CodeNotFound, "not found")
	default:
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, model.CodeStoreFailure, "something went wrong, please try again")
	}
}

// decodeJSON reads a single JSON object into dst. Decode problems are
// reported as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: request body too large", service.ErrValidation)
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", service.ErrValidation)
		}
		return fmt.Errorf("%w: invalid JSON: %w", service.ErrValidation, err)
	}

	if dec.More() {
		return fmt.Errorf("%w: request body must hold a single JSON object", service.ErrValidation)
	}
	return nil
}

// NotFound is the JSON fallback for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, model.CodeNotFound, "not found")
}
