package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"journal/internal/auth"
	"journal/internal/mood"
)

type MoodHandler struct {
	Svc *mood.Service
}

type moodDTO struct {
	ID        uint64    `json:"id"`
	Date      time.Time `json:"date"`
	Category  string    `json:"category"`
	Intensity int       `json:"intensity"`
	Notes     string    `json:"notes,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toMoodDTO(rec *mood.Record) moodDTO {
	return moodDTO{
		ID:        rec.ID,
		Date:      rec.Date,
		Category:  string(mood.NormalizeCategory(rec.Category)),
		Intensity: rec.Intensity,
		Notes:     rec.Notes,
		UpdatedAt: rec.UpdatedAt,
	}
}

type upsertMoodReq struct {
	Date      *string `json:"date"` // RFC3339, defaults to now
	Category  string  `json:"category"`
	Intensity int     `json:"intensity"`
	Notes     string  `json:"notes"`
}

// Upsert writes the mood for one calendar day. Callers re-fetch the day
// rather than trusting a mutation result, so the response carries the
// freshly read record.
func (h *MoodHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req upsertMoodReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	date := time.Now()
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		t, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			http.Error(w, "invalid date (RFC3339)", http.StatusBadRequest)
			return
		}
		date = t
	}

	err := h.Svc.Upsert(r.Context(), uid, mood.UpsertInput{
		Date:      date,
		Category:  mood.Category(strings.ToLower(strings.TrimSpace(req.Category))),
		Intensity: req.Intensity,
		Notes:     req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, mood.ErrInvalidCategory), errors.Is(err, mood.ErrInvalidIntensity):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "server error", http.StatusInternalServerError)
		}
		return
	}

	rec, err := h.Svc.ForDay(r.Context(), uid, date)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toMoodDTO(rec))
}

func (h *MoodHandler) Today(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	rec, err := h.Svc.ForDay(r.Context(), uid, time.Now())
	if err != nil {
		if errors.Is(err, mood.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toMoodDTO(rec))
}

func (h *MoodHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	from, to, err := rangeWindow(r)
	if err != nil {
		http.Error(w, "invalid range (RFC3339)", http.StatusBadRequest)
		return
	}

	recs, err := h.Svc.Range(r.Context(), uid, from, to)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]moodDTO, 0, len(recs))
	for i := range recs {
		out = append(out, toMoodDTO(&recs[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *MoodHandler) Stats(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	from, to, err := rangeWindow(r)
	if err != nil {
		http.Error(w, "invalid range (RFC3339)", http.StatusBadRequest)
		return
	}

	stats, err := h.Svc.Stats(r.Context(), uid, from, to)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
