package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/erazemk/heartshare/internal/model"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("error encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// ValidationResponse is the body of a 422 reply.
type ValidationResponse struct {
	Error  string            `json:"error"`
	Fields model.FieldErrors `json:"fields"`
}

// jsonValidationError writes per-field messages for a rejected donation.
func jsonValidationError(w http.ResponseWriter, fields model.FieldErrors) {
	jsonResponse(w, http.StatusUnprocessableEntity, ValidationResponse{
		Error:  "Please fill out all required fields correctly.",
		Fields: fields,
	})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
