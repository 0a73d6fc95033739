package handler

import (
	"net/http"

	"gorm.io/gorm"

	"journal/internal/auth"
)

type MeHandler struct {
	DB *gorm.DB
}

func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var u auth.User
	if err := h.DB.First(&u, uid).Error; err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":      u.ID,
		"email":        u.Email,
		"display_name": u.DisplayName,
	})
}
