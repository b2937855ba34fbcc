package handlers

import (
	"net/http"
	"time"

	"github.com/aqualytics/aqualytics/internal/database"
)

const dateLayout = "2006-01-02"

type competitionPayload struct {
	Name      string  `json:"name"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	City      *string `json:"city"`
	Country   *string `json:"country"`
	Type      *string `json:"type"`
}

type competitionResponse struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	City      *string `json:"city,omitempty"`
	Country   *string `json:"country,omitempty"`
	Type      *string `json:"type,omitempty"`
	FullName  string  `json:"full_name"`
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func toCompetitionResponse(c database.Competition) competitionResponse {
	return competitionResponse{
		ID:        c.ID,
		Name:      c.Name,
		StartDate: formatDate(c.StartDate),
		EndDate:   formatDate(c.EndDate),
		City:      c.City,
		Country:   c.Country,
		Type:      c.Type,
		FullName:  c.FullName(),
	}
}

func (h *Handlers) competitionFromPayload(w http.ResponseWriter, payload competitionPayload) (*database.Competition, bool) {
	if payload.Name == "" {
		h.jsonError(w, "Competition name is required", http.StatusBadRequest)
		return nil, false
	}
	start, err := parseDate(payload.StartDate)
	if err != nil {
		h.jsonError(w, "Invalid start_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return nil, false
	}
	end, err := parseDate(payload.EndDate)
	if err != nil {
		h.jsonError(w, "Invalid end_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return nil, false
	}
	return &database.Competition{
		Name:      payload.Name,
		StartDate: start,
		EndDate:   end,
		City:      payload.City,
		Country:   payload.Country,
		Type:      payload.Type,
	}, true
}

// ListCompetitions handles GET /api/v1/competitions.
func (h *Handlers) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	competitions, err := h.db.ListCompetitions(r.Context())
	if err != nil {
		h.storageError(w, err)
		return
	}

	resp := make([]competitionResponse, 0, len(competitions))
	for _, c := range competitions {
		resp = append(resp, toCompetitionResponse(c))
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

// GetCompetition handles GET /api/v1/competitions/{id}.
func (h *Handlers) GetCompetition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.jsonError(w, "Invalid competition ID", http.StatusBadRequest)
		return
	}

	competition, err := h.db.GetCompetition(r.Context(), id)
	if err != nil {
		h.storageError(w, err)
		return
	}
	if competition == nil {
		h.jsonError(w, "Competition not found", http.StatusNotFound)
		return
	}
	h.jsonResponse(w, http.StatusOK, toCompetitionResponse(*competition))
}

// CreateCompetition handles POST /api/v1/competitions.
func (h *Handlers) CreateCompetition(w http.ResponseWriter, r *http.Request) {
	var payload competitionPayload
	if !h.decode(w, r, &payload) {
		return
	}

	competition, ok := h.competitionFromPayload(w, payload)
	if !ok {
		return
	}
	if err := h.db.CreateCompetition(r.Context(), competition); err != nil {
		h.storageError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusCreated, toCompetitionResponse(*competition))
}

// UpdateCompetition handles PUT /api/v1/competitions/{id}.
func (h *Handlers) UpdateCompetition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.jsonError(w, "Invalid competition ID", http.StatusBadRequest)
		return
	}

	var payload competitionPayload
	if !h.decode(w, r, &payload) {
		return
	}

	competition, ok := h.competitionFromPayload(w, payload)
	if !ok {
		return
	}
	competition.ID = id

	found, err := h.db.UpdateCompetition(r.Context(), competition)
	if err != nil {
		h.storageError(w, err)
		return
	}
	if !found {
		h.jsonError(w, "Competition not found", http.StatusNotFound)
		return
	}
	h.jsonResponse(w, http.StatusOK, toCompetitionResponse(*competition))
}

// DeleteCompetition handles DELETE /api/v1/competitions/{id}. Associated
// records are removed with the competition in the same transaction.
func (h *Handlers) DeleteCompetition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.jsonError(w, "Invalid competition ID", http.StatusBadRequest)
		return
	}

	cascaded, found, err := h.db.DeleteCompetition(r.Context(), id)
	if err != nil {
		h.storageError(w, err)
		return
	}
	if !found {
		h.jsonError(w, "Competition not found", http.StatusNotFound)
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]any{
		"deleted":         true,
		"records_removed": cascaded,
	})
}
