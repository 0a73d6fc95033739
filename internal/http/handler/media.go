package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"journal/internal/auth"
	"journal/internal/media"
)

type MediaHandler struct {
	Svc *media.Service
}

type attachmentDTO struct {
	ID          uint64    `json:"id"`
	EntryID     *uint64   `json:"entry_id"`
	URL         string    `json:"url"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

func toAttachmentDTO(a *media.Attachment) attachmentDTO {
	return attachmentDTO{
		ID:          a.ID,
		EntryID:     a.EntryID,
		URL:         a.URL,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		CreatedAt:   a.CreatedAt,
	}
}

// Upload accepts a multipart form with a "file" part and an optional
// "entry_id" field linking to one diary entry.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "bad multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var entryID *uint64
	if v := strings.TrimSpace(r.FormValue("entry_id")); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid entry_id", http.StatusBadRequest)
			return
		}
		entryID = &id
	}

	att, err := h.Svc.Upload(r.Context(), uid, media.UploadInput{
		EntryID:     entryID,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		switch {
		case errors.Is(err, media.ErrUnknownEntry):
			http.Error(w, "unknown entry", http.StatusNotFound)
		case errors.Is(err, media.ErrEmptyFile), errors.Is(err, media.ErrTooLarge):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "server error", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, toAttachmentDTO(att))
}

func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	rows, err := h.Svc.List(r.Context(), uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]attachmentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toAttachmentDTO(&rows[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Svc.Delete(r.Context(), uid, id); err != nil {
		if errors.Is(err, media.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
