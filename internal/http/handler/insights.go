package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"journal/internal/auth"
	"journal/internal/insight"
	"journal/internal/mood"
)

type InsightHandler struct {
	Svc *insight.Service
}

type insightDTO struct {
	ID               uint64               `json:"id"`
	Period           string               `json:"period"`
	PeriodStart      time.Time            `json:"period_start"`
	PeriodEnd        time.Time            `json:"period_end"`
	AverageMoodScore string               `json:"average_mood_score"`
	DominantCategory string               `json:"dominant_category"`
	MoodCounts       []mood.CategoryCount `json:"mood_counts"`
	TopHabits        []insight.HabitRef   `json:"top_habits"`
	Summary          string               `json:"summary"`
	CreatedAt        time.Time            `json:"created_at"`
}

func toInsightDTO(ins *insight.Insight) insightDTO {
	return insightDTO{
		ID:               ins.ID,
		Period:           ins.Period,
		PeriodStart:      ins.PeriodStart,
		PeriodEnd:        ins.PeriodEnd,
		AverageMoodScore: ins.AverageMoodScore,
		DominantCategory: ins.DominantCategory,
		MoodCounts:       ins.MoodCounts.Data(),
		TopHabits:        ins.TopHabits.Data(),
		Summary:          ins.Summary,
		CreatedAt:        ins.CreatedAt,
	}
}

func (h *InsightHandler) Generate(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	period := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("period")))
	if period == "" {
		period = insight.PeriodWeek
	}

	ins, err := h.Svc.Generate(r.Context(), uid, period, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, insight.ErrInvalidPeriod):
			http.Error(w, "invalid period (week|month|year)", http.StatusBadRequest)
		case errors.Is(err, insight.ErrNoMoodData):
			// user-facing rejection, not a fault
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "server error", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, toInsightDTO(ins))
}

func (h *InsightHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	limit := 0
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	rows, err := h.Svc.Recent(r.Context(), uid, limit)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]insightDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toInsightDTO(&rows[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
