package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
)

// writeJSON marshals v into the response with the given status. v already
// carries the success flag; see the envelope builders below.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// envelope builds a success body: {"success": true, <key>: <value>, ...}.
// Keys and values alternate, mirroring slog's argument convention.
func envelope(kv ...any) map[string]any {
	body := map[string]any{"success": true}
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			body[key] = kv[i+1]
		}
	}
	return body
}

// writeError reports a failure: {"success": false, "message": ...}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

// writeDomainError maps a domain error onto the HTTP taxonomy: validation
// errors are 400, missing/foreign-owned records are 404 and everything else
// is a 500 with the underlying message surfaced.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case core.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "Expense not found")
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err,
			"method", r.Method,
			"url", r.URL.Path)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
