package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/aqualytics/aqualytics/internal/database"
)

// recordPayload carries the value as a string so that fixed-point input
// like "12.345" never passes through a float.
type recordPayload struct {
	CompetitionID int     `json:"competition_id"`
	SwimmerID     int     `json:"swimmer_id"`
	DistanceID    int     `json:"distance_id"`
	StrokeID      int     `json:"stroke_id"`
	PhaseID       int     `json:"phase_id"`
	ParameterID   int     `json:"parameter_id"`
	Date          *string `json:"date"`
	Segment       *int    `json:"segment"`
	Value         string  `json:"value"`
	Note          *string `json:"note"`
	Validated     *bool   `json:"validated"`
}

type recordResponse struct {
	ID            int64   `json:"id"`
	CompetitionID int     `json:"competition_id"`
	SwimmerID     int     `json:"swimmer_id"`
	DistanceID    int     `json:"distance_id"`
	StrokeID      int     `json:"stroke_id"`
	PhaseID       int     `json:"phase_id"`
	ParameterID   int     `json:"parameter_id"`
	Date          *string `json:"date,omitempty"`
	Segment       *int    `json:"segment,omitempty"`
	Value         string  `json:"value"`
	Note          *string `json:"note,omitempty"`
	Validated     bool    `json:"validated"`
	IsSplit       bool    `json:"is_split"`
}

func toRecordResponse(r database.Record) recordResponse {
	return recordResponse{
		ID:            r.ID,
		CompetitionID: r.CompetitionID,
		SwimmerID:     r.SwimmerID,
		DistanceID:    r.DistanceID,
		StrokeID:      r.StrokeID,
		PhaseID:       r.PhaseID,
		ParameterID:   r.ParameterID,
		Date:          formatDate(r.Date),
		Segment:       r.Segment,
		Value:         r.Value.String(),
		Note:          r.Note,
		Validated:     r.Validated,
		IsSplit:       r.IsSplit(),
	}
}

func (h *Handlers) recordFromPayload(w http.ResponseWriter, payload recordPayload) (*database.Record, bool) {
	if payload.CompetitionID == 0 || payload.SwimmerID == 0 || payload.DistanceID == 0 ||
		payload.StrokeID == 0 || payload.PhaseID == 0 || payload.ParameterID == 0 {
		h.jsonError(w, "All six reference IDs are required", http.StatusBadRequest)
		return nil, false
	}
	if payload.Value == "" {
		h.jsonError(w, "Record value is required", http.StatusBadRequest)
		return nil, false
	}

	value, err := decimal.NewFromString(payload.Value)
	if err != nil {
		h.jsonError(w, "Invalid value, expected a decimal number", http.StatusBadRequest)
		return nil, false
	}
	date, err := parseDate(payload.Date)
	if err != nil {
		h.jsonError(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return nil, false
	}

	validated := true
	if payload.Validated != nil {
		validated = *payload.Validated
	}

	return &database.Record{
		CompetitionID: payload.CompetitionID,
		SwimmerID:     payload.SwimmerID,
		DistanceID:    payload.DistanceID,
		StrokeID:      payload.StrokeID,
		PhaseID:       payload.PhaseID,
		ParameterID:   payload.ParameterID,
		Date:          date,
		Segment:       payload.Segment,
		Value:         value,
		Note:          payload.Note,
		Validated:     validated,
	}, true
}

// ListRecords handles GET /api/v1/records with optional swimmer_id,
// competition_id, parameter_id and splits_only query filters.
func (h *Handlers) ListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := database.RecordFilter{
		SwimmerID:     intQuery(q.Get("swimmer_id")),
		CompetitionID: intQuery(q.Get("competition_id")),
		ParameterID:   intQuery(q.Get("parameter_id")),
		SplitsOnly:    q.Get("splits_only") == "true",
	}

	records, err := h.db.ListRecords(r.Context(), filter)
	if err != nil {
		h.storageError(w, err)
		return
	}

	resp := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toRecordResponse(rec))
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

func intQuery(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

// GetRecord handles GET /api/v1/records/{id}.
func (h *Handlers) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.jsonError(w, "Invalid record ID", http.StatusBadRequest)
		return
	}

	record, err := h.db.GetRecord(r.Context(), id)
	if err != nil {
		h.storageError(w, err)
		return
	}
	if record == nil {
		h.jsonError(w, "Record not found", http.StatusNotFound)
		return
	}
	h.jsonResponse(w, http.StatusOK, toRecordResponse(*record))
}

// CreateRecord handles POST /api/v1/records. A reference to a missing
// parent row is rejected with 409.
func (h *Handlers) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var payload recordPayload
	if !h.decode(w, r, &payload) {
		return
	}

	record, ok := h.recordFromPayload(w, payload)
	if !ok {
		return
	}
	if err := h.db.CreateRecord(r.Context(), record); err != nil {
		h.storageError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusCreated, toRecordResponse(*record))
}

// CreateRecordBatch handles POST /api/v1/records/batch: all records are
// inserted in one transaction, so a bad row rejects the whole batch.
func (h *Handlers) CreateRecordBatch(w http.ResponseWriter, r *http.Request) {
	var payloads []recordPayload
	if !h.decode(w, r, &payloads) {
		return
	}
	if len(payloads) == 0 {
		h.jsonError(w, "Batch is empty", http.StatusBadRequest)
		return
	}

	records := make([]*database.Record, 0, len(payloads))
	for _, p := range payloads {
		record, ok := h.recordFromPayload(w, p)
		if !ok {
			return
		}
		records = append(records, record)
	}

	if err := h.db.CreateRecords(r.Context(), records); err != nil {
		h.storageError(w, err)
		return
	}

	resp := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toRecordResponse(*rec))
	}
	h.jsonResponse(w, http.StatusCreated, resp)
}

// UpdateRecord handles PUT /api/v1/records/{id}. The six reference IDs are
// immutable once a record exists; the response echoes the stored row, so
// any differing IDs in the payload show up unchanged in the body.
func (h *Handlers) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.jsonError(w, "Invalid record ID", http.StatusBadRequest)
		return
	}

	var payload recordPayload
	if !h.decode(w, r, &payload) {
		return
	}

	record, ok := h.recordFromPayload(w, payload)
	if !ok {
		return
	}
	record.ID = id

	found, err := h.db.UpdateRecord(r.Context(), record)
	if err != nil {
		h.storageError(w, err)
		return
	}
	if !found {
		h.jsonError(w, "Record not found", http.StatusNotFound)
		return
	}
	h.jsonResponse(w, http.StatusOK, toRecordResponse(*record))
}

// DeleteRecord handles DELETE /api/v1/records/{id}.
func (h *Handlers) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.jsonError(w, "Invalid record ID", http.StatusBadRequest)
		return
	}

	found, err := h.db.DeleteRecord(r.Context(), id)
	if err != nil {
		h.storageError(w, err)
		return
	}
	if !found {
		h.jsonError(w, "Record not found", http.StatusNotFound)
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]any{"deleted": true})
}
