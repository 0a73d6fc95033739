package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"journal/internal/auth"
	"journal/internal/entry"
)

type EntryHandler struct {
	Svc *entry.Service
}

type entryDTO struct {
	ID        uint64    `json:"id"`
	Date      time.Time `json:"date"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toEntryDTO(e *entry.Entry) entryDTO {
	return entryDTO{
		ID:        e.ID,
		Date:      e.Date,
		Title:     e.Title,
		Content:   e.Content,
		Mood:      e.Mood,
		Tags:      []string(e.Tags),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

type createEntryReq struct {
	Date    *string `json:"date"` // RFC3339, optional
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Mood    string  `json:"mood"`
}

func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req createEntryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	var date time.Time
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		t, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			http.Error(w, "invalid date (RFC3339)", http.StatusBadRequest)
			return
		}
		date = t
	}

	e, err := h.Svc.Create(r.Context(), uid, entry.CreateInput{
		Date:    date,
		Title:   req.Title,
		Content: req.Content,
		Mood:    req.Mood,
	})
	if err != nil {
		switch {
		case errors.Is(err, entry.ErrEmptyContent), errors.Is(err, entry.ErrInvalidMood):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, toEntryDTO(e))
}

func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	from, err := queryTime(r, "from")
	if err != nil {
		http.Error(w, "invalid from (RFC3339)", http.StatusBadRequest)
		return
	}
	to, err := queryTime(r, "to")
	if err != nil {
		http.Error(w, "invalid to (RFC3339)", http.StatusBadRequest)
		return
	}

	rows, err := h.Svc.List(r.Context(), uid, entry.ListFilter{
		From:  from,
		To:    to,
		Tag:   r.URL.Query().Get("tag"),
		Query: r.URL.Query().Get("q"),
	})
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]entryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toEntryDTO(&rows[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	e, err := h.Svc.Get(r.Context(), uid, id)
	if err != nil {
		if errors.Is(err, entry.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(e))
}

type updateEntryReq struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Mood    *string `json:"mood"`
}

func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateEntryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	e, err := h.Svc.Update(r.Context(), uid, id, entry.UpdateInput{
		Title:   req.Title,
		Content: req.Content,
		Mood:    req.Mood,
	})
	if err != nil {
		switch {
		case errors.Is(err, entry.ErrNotFound):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, entry.ErrEmptyContent), errors.Is(err, entry.ErrInvalidMood):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "server error", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(e))
}

func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Svc.Delete(r.Context(), uid, id); err != nil {
		if errors.Is(err, entry.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
