package web

// errors.go provides unified response helpers for the web layer. Technical
// errors are logged server-side with the request id; clients get a sanitized
// JSON body.

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"medeval/internal/core"
	"medeval/internal/logging"
)

// writeJSON encodes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent, nothing left to do but log
		slog.Error("json encode error", "error", err)
	}
}

// writeError writes a JSON error response and logs it with request context.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", message,
	)
	writeJSON(w, status, map[string]string{"error": message})
}

// validationResponse is the body for a rejected upload. Only the fields of
// the failed check are present.
type validationResponse struct {
	Error          string             `json:"error"`
	MissingColumns []string           `json:"missing_columns,omitempty"`
	DuplicateIDs   []core.DuplicateID `json:"duplicate_ids,omitempty"`
	EmptyRows      []int              `json:"empty_rows,omitempty"`
	InvalidIDRows  []int              `json:"invalid_id_rows,omitempty"`
}

// writeValidationError maps a validation failure to a structured 400 body.
func writeValidationError(w http.ResponseWriter, r *http.Request, verr *core.ValidationError) {
	logging.FromContext(r.Context()).Warn("upload rejected", "reason", verr.Error())
	writeJSON(w, http.StatusBadRequest, validationResponse{
		Error:          verr.Error(),
		MissingColumns: verr.MissingColumns,
		DuplicateIDs:   verr.Duplicates,
		EmptyRows:      verr.EmptyRows,
		InvalidIDRows:  verr.InvalidIDRows,
	})
}
