package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/nochase/nochase/internal/model"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIError{Message: message, Code: code})
}
