package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/aqualytics/aqualytics/internal/database"
)

// Handlers contains all HTTP handlers. They are deliberately thin: decode,
// call the repository, encode. Transactional behavior lives in the
// database package.
type Handlers struct {
	db      *database.DB
	version string
}

// New creates a new Handlers instance
func New(db *database.DB, version string) *Handlers {
	return &Handlers{db: db, version: version}
}

// jsonResponse writes v as JSON with the given status.
func (h *Handlers) jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// jsonError sends a JSON error response
func (h *Handlers) jsonError(w http.ResponseWriter, message string, status int) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}

// decode reads the request body into v, reporting 400 on malformed input.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
