package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"journal/internal/auth"
	"journal/internal/habit"
	"journal/internal/timeutil"
)

type HabitHandler struct {
	Svc *habit.Service
}

type habitDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	State       string    `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
}

func toHabitDTO(h *habit.Habit) habitDTO {
	return habitDTO{
		ID:          h.ID,
		Name:        h.Name,
		Description: h.Description,
		State:       h.State,
		CreatedAt:   h.CreatedAt,
	}
}

type completionDTO struct {
	ID          uint64     `json:"id"`
	HabitID     uint64     `json:"habit_id"`
	Date        time.Time  `json:"date"`
	Completed   bool       `json:"completed"`
	Notes       string     `json:"notes,omitempty"`
	CompletedAt *time.Time `json:"completed_at"`
}

func toCompletionDTO(c *habit.Completion) completionDTO {
	return completionDTO{
		ID:          c.ID,
		HabitID:     c.HabitID,
		Date:        c.Date,
		Completed:   c.Completed,
		Notes:       c.Notes,
		CompletedAt: c.CompletedAt,
	}
}

type habitReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req habitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	created, err := h.Svc.Create(r.Context(), uid, habit.CreateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, habit.ErrInvalidName) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, toHabitDTO(created))
}

func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	state := habit.StateActive
	if strings.EqualFold(r.URL.Query().Get("archived"), "true") {
		state = habit.StateArchived
	}

	habits, err := h.Svc.List(r.Context(), uid, state)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]habitDTO, 0, len(habits))
	for i := range habits {
		out = append(out, toHabitDTO(&habits[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

type updateHabitReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateHabitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	updated, err := h.Svc.Update(r.Context(), uid, id, habit.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, habit.ErrNotFound):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, habit.ErrInvalidName):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "server error", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, toHabitDTO(updated))
}

func (h *HabitHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setState(w, r, h.Svc.Archive)
}

func (h *HabitHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.setState(w, r, h.Svc.Restore)
}

func (h *HabitHandler) setState(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, habitID uint64) error) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := op(r.Context(), uid, id); err != nil {
		if errors.Is(err, habit.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type completionReq struct {
	Date      *string `json:"date"` // RFC3339, defaults to now
	Completed bool    `json:"completed"`
	Notes     string  `json:"notes"`
}

// SetCompletion toggles the habit's completion for one calendar day and
// responds with the re-fetched day state.
func (h *HabitHandler) SetCompletion(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req completionReq
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

	err := h.Svc.SetCompletion(r.Context(), uid, id, habit.CompletionInput{
		Date:      date,
		Completed: req.Completed,
		Notes:     req.Notes,
	})
	if err != nil {
		if errors.Is(err, habit.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	// re-fetch the day state rather than trusting the mutation result
	dayStart, dayEnd := timeutil.DayWindow(date)
	recs, err := h.Svc.Completions(r.Context(), uid, id, dayStart, dayEnd)
	if err != nil || len(recs) == 0 {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toCompletionDTO(&recs[0]))
}

func (h *HabitHandler) Completions(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	from, to, err := rangeWindow(r)
	if err != nil {
		http.Error(w, "invalid range (RFC3339)", http.StatusBadRequest)
		return
	}

	recs, err := h.Svc.Completions(r.Context(), uid, id, from, to)
	if err != nil {
		if errors.Is(err, habit.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]completionDTO, 0, len(recs))
	for i := range recs {
		out = append(out, toCompletionDTO(&recs[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
