// Package handler implements the JSON API. Validation that needs the
// database lives in the stores; handlers gate on phase and auth, decode
// input, and translate domain errors to HTTP responses.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"halalan/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps a domain error to its status and reason code. Anything
// unrecognized is logged and reported as a plain 500.
func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := domain.Status(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		writeJSON(w, status, map[string]string{"error": "internal server error", "code": "internal_error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "code": domain.Code(err)})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg, "code": "invalid_input"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid JSON")
		return false
	}
	return true
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
