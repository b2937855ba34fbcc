package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/aqualytics/aqualytics/internal/database"
)

type swimmerPayload struct {
	Name     string  `json:"name"`
	Age      *int16  `json:"age"`
	Weight   *int16  `json:"weight"`
	Team     *string `json:"team"`
	Category *string `json:"category"`
}

type swimmerResponse struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Age      *int16  `json:"age,omitempty"`
	Weight   *int16  `json:"weight,omitempty"`
	Team     *string `json:"team,omitempty"`
	Category *string `json:"category,omitempty"`
	Display  string  `json:"display_name"`
}

func toSwimmerResponse(s database.Swimmer) swimmerResponse {
	return swimmerResponse{
		ID:       s.ID,
		Name:     s.Name,
		Age:      s.Age,
		Weight:   s.Weight,
		Team:     s.Team,
		Category: s.Category,
		Display:  s.DisplayName(),
	}
}

// storageError maps database-layer failures onto HTTP statuses. Integrity
// violations are the caller's conflict, pool problems are the service's.
func (h *Handlers) storageError(w http.ResponseWriter, err error) {
	var integrity *database.IntegrityError
	switch {
	case errors.As(err, &integrity):
		h.jsonError(w, integrity.Error(), http.StatusConflict)
	case errors.Is(err, database.ErrNotInitialized), errors.Is(err, database.ErrPoolExhausted):
		log.Error().Err(err).Msg("Database unavailable")
		h.jsonError(w, "Database unavailable", http.StatusServiceUnavailable)
	default:
		log.Error().Err(err).Msg("Storage operation failed")
		h.jsonError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil
}

// ListSwimmers handles GET /api/v1/swimmers.
func (h *Handlers) ListSwimmers(w http.ResponseWriter, r *http.Request) {
	swimmers, err := h.db.ListSwimmers(r.Context())
	if err != nil {
		h.storageError(w, err)
		return
	}

	resp := make([]swimmerResponse, 0, len(swimmers))
	for _, s := range swimmers {
		resp = append(resp, toSwimmerResponse(s))
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

// GetSwimmer handles GET /api/v1/swimmers/{id}.
func (h *Handlers) GetSwimmer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.jsonError(w, "Invalid swimmer ID", http.StatusBadRequest)
		return
	}

	swimmer, err := h.db.GetSwimmer(r.Context(), id)
	if err != nil {
		h.storageError(w, err)
		return
	}
	if swimmer == nil {
		h.jsonError(w, "Swimmer not found", http.StatusNotFound)
		return
	}
	h.jsonResponse(w, http.StatusOK, toSwimmerResponse(*swimmer))
}

// CreateSwimmer handles POST /api/v1/swimmers.
func (h *Handlers) CreateSwimmer(w http.ResponseWriter, r *http.Request) {
	var payload swimmerPayload
	if !h.decode(w, r, &payload) {
		return
	}
	if payload.Name == "" {
		h.jsonError(w, "Swimmer name is required", http.StatusBadRequest)
		return
	}

	swimmer := database.Swimmer{
		Name:     payload.Name,
		Age:      payload.Age,
		Weight:   payload.Weight,
		Team:     payload.Team,
		Category: payload.Category,
	}
	if err := h.db.CreateSwimmer(r.Context(), &swimmer); err != nil {
		h.storageError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusCreated, toSwimmerResponse(swimmer))
}

// UpdateSwimmer handles PUT /api/v1/swimmers/{id}.
func (h *Handlers) UpdateSwimmer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.jsonError(w, "Invalid swimmer ID", http.StatusBadRequest)
		return
	}

	var payload swimmerPayload
	if !h.decode(w, r, &payload) {
		return
	}
	if payload.Name == "" {
		h.jsonError(w, "Swimmer name is required", http.StatusBadRequest)
		return
	}

	swimmer := database.Swimmer{
		ID:       id,
		Name:     payload.Name,
		Age:      payload.Age,
		Weight:   payload.Weight,
		Team:     payload.Team,
		Category: payload.Category,
	}
	found, err := h.db.UpdateSwimmer(r.Context(), &swimmer)
	if err != nil {
		h.storageError(w, err)
		return
	}
	if !found {
		h.jsonError(w, "Swimmer not found", http.StatusNotFound)
		return
	}
	h.jsonResponse(w, http.StatusOK, toSwimmerResponse(swimmer))
}

// DeleteSwimmer handles DELETE /api/v1/swimmers/{id}. Associated records
// are removed with the swimmer in the same transaction.
func (h *Handlers) DeleteSwimmer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.jsonError(w, "Invalid swimmer ID", http.StatusBadRequest)
		return
	}

	cascaded, found, err := h.db.DeleteSwimmer(r.Context(), id)
	if err != nil {
		h.storageError(w, err)
		return
	}
	if !found {
		h.jsonError(w, "Swimmer not found", http.StatusNotFound)
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]any{
		"deleted":         true,
		"records_removed": cascaded,
	})
}
