package handlers

import (
	"context"
	"net/http"

	"github.com/aqualytics/aqualytics/internal/database"
)

// Reference catalog handlers. Catalogs are administered rarely, so the
// surface is list/create/delete; a restricted delete (catalog row still
// referenced by records) comes back as 409. List and create share one
// response struct per catalog, so GET and POST answer with the same
// field names.

type distanceResponse struct {
	ID     int `json:"id"`
	Meters int `json:"meters"`
}

func toDistanceResponse(d database.Distance) distanceResponse {
	return distanceResponse{ID: d.ID, Meters: d.Meters}
}

// ListDistances handles GET /api/v1/distances.
func (h *Handlers) ListDistances(w http.ResponseWriter, r *http.Request) {
	distances, err := h.db.ListDistances(r.Context())
	if err != nil {
		h.storageError(w, err)
		return
	}

	resp := make([]distanceResponse, 0, len(distances))
	for _, d := range distances {
		resp = append(resp, toDistanceResponse(d))
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

// CreateDistance handles POST /api/v1/distances.
func (h *Handlers) CreateDistance(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Meters int `json:"meters"`
	}
	if !h.decode(w, r, &payload) {
		return
	}
	if payload.Meters <= 0 {
		h.jsonError(w, "Distance in meters must be positive", http.StatusBadRequest)
		return
	}

	distance, err := h.db.CreateDistance(r.Context(), payload.Meters)
	if err != nil {
		h.storageError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusCreated, toDistanceResponse(*distance))
}

// DeleteDistance handles DELETE /api/v1/distances/{id}.
func (h *Handlers) DeleteDistance(w http.ResponseWriter, r *http.Request) {
	h.deleteCatalog(w, r, h.db.DeleteDistance)
}

type strokeResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func toStrokeResponse(s database.Stroke) strokeResponse {
	return strokeResponse{ID: s.ID, Name: s.Name}
}

// ListStrokes handles GET /api/v1/strokes.
func (h *Handlers) ListStrokes(w http.ResponseWriter, r *http.Request) {
	strokes, err := h.db.ListStrokes(r.Context())
	if err != nil {
		h.storageError(w, err)
		return
	}

	resp := make([]strokeResponse, 0, len(strokes))
	for _, s := range strokes {
		resp = append(resp, toStrokeResponse(s))
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

// CreateStroke handles POST /api/v1/strokes.
func (h *Handlers) CreateStroke(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if !h.decode(w, r, &payload) {
		return
	}
	if payload.Name == "" {
		h.jsonError(w, "Stroke name is required", http.StatusBadRequest)
		return
	}

	stroke, err := h.db.CreateStroke(r.Context(), payload.Name)
	if err != nil {
		h.storageError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusCreated, toStrokeResponse(*stroke))
}

// DeleteStroke handles DELETE /api/v1/strokes/{id}.
func (h *Handlers) DeleteStroke(w http.ResponseWriter, r *http.Request) {
	h.deleteCatalog(w, r, h.db.DeleteStroke)
}

type phaseResponse struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	IsFinal       bool   `json:"is_final"`
	IsSemifinal   bool   `json:"is_semifinal"`
	IsPreliminary bool   `json:"is_preliminary"`
}

func toPhaseResponse(p database.Phase) phaseResponse {
	return phaseResponse{
		ID:            p.ID,
		Name:          p.Name,
		IsFinal:       p.IsFinal(),
		IsSemifinal:   p.IsSemifinal(),
		IsPreliminary: p.IsPreliminary(),
	}
}

// ListPhases handles GET /api/v1/phases, including the derived
// classification of each phase.
func (h *Handlers) ListPhases(w http.ResponseWriter, r *http.Request) {
	phases, err := h.db.ListPhases(r.Context())
	if err != nil {
		h.storageError(w, err)
		return
	}

	resp := make([]phaseResponse, 0, len(phases))
	for _, p := range phases {
		resp = append(resp, toPhaseResponse(p))
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

// CreatePhase handles POST /api/v1/phases.
func (h *Handlers) CreatePhase(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if !h.decode(w, r, &payload) {
		return
	}
	if payload.Name == "" {
		h.jsonError(w, "Phase name is required", http.StatusBadRequest)
		return
	}

	phase, err := h.db.CreatePhase(r.Context(), payload.Name)
	if err != nil {
		h.storageError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusCreated, toPhaseResponse(*phase))
}

// DeletePhase handles DELETE /api/v1/phases/{id}.
func (h *Handlers) DeletePhase(w http.ResponseWriter, r *http.Request) {
	h.deleteCatalog(w, r, h.db.DeletePhase)
}

type parameterResponse struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Kind        string  `json:"kind"`
	Global      bool    `json:"global"`
	Description *string `json:"description,omitempty"`
	Unit        *string `json:"unit,omitempty"`
	DisplayName string  `json:"display_name"`
	IsManual    bool    `json:"is_manual"`
}

func toParameterResponse(p database.Parameter) parameterResponse {
	return parameterResponse{
		ID:          p.ID,
		Name:        p.Name,
		Kind:        p.Kind,
		Global:      p.Global,
		Description: p.Description,
		Unit:        p.Unit,
		DisplayName: p.DisplayName(),
		IsManual:    p.IsManual(),
	}
}

// ListParameters handles GET /api/v1/parameters.
func (h *Handlers) ListParameters(w http.ResponseWriter, r *http.Request) {
	parameters, err := h.db.ListParameters(r.Context())
	if err != nil {
		h.storageError(w, err)
		return
	}

	resp := make([]parameterResponse, 0, len(parameters))
	for _, p := range parameters {
		resp = append(resp, toParameterResponse(p))
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

// CreateParameter handles POST /api/v1/parameters.
func (h *Handlers) CreateParameter(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name        string  `json:"name"`
		Kind        string  `json:"kind"`
		Global      bool    `json:"global"`
		Description *string `json:"description"`
		Unit        *string `json:"unit"`
	}
	if !h.decode(w, r, &payload) {
		return
	}
	if payload.Name == "" {
		h.jsonError(w, "Parameter name is required", http.StatusBadRequest)
		return
	}
	if payload.Kind != database.ParameterKindManual && payload.Kind != database.ParameterKindAutomatic {
		h.jsonError(w, `Parameter kind must be "M" or "A"`, http.StatusBadRequest)
		return
	}

	parameter := database.Parameter{
		Name:        payload.Name,
		Kind:        payload.Kind,
		Global:      payload.Global,
		Description: payload.Description,
		Unit:        payload.Unit,
	}
	if err := h.db.CreateParameter(r.Context(), &parameter); err != nil {
		h.storageError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusCreated, toParameterResponse(parameter))
}

// DeleteParameter handles DELETE /api/v1/parameters/{id}.
func (h *Handlers) DeleteParameter(w http.ResponseWriter, r *http.Request) {
	h.deleteCatalog(w, r, h.db.DeleteParameter)
}

func (h *Handlers) deleteCatalog(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id int) (bool, error)) {
	id, ok := pathID(r)
	if !ok {
		h.jsonError(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	found, err := del(r.Context(), id)
	if err != nil {
		h.storageError(w, err)
		return
	}
	if !found {
		h.jsonError(w, "Not found", http.StatusNotFound)
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]any{"deleted": true})
}
