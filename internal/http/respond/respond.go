// Package respond writes JSON API responses.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/MrJamesThe3rd/spendwise/internal/logger"
)

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v with status. Encoding failures are logged; the status line
// has already been sent by then.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func Error(w http.ResponseWriter, r *http.Request, status int, msg string) {
	JSON(w, r, status, errorBody{Error: msg})
}
