package insight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"journal/internal/habit"
	"journal/internal/mood"
)

var (
	ErrNoMoodData    = errors.New("no mood data available for this period")
	ErrInvalidPeriod = errors.New("invalid period")
)

const topHabitsLimit = 3

type Service struct {
	DB     *gorm.DB
	Log    *zap.SugaredLogger
	Moods  *mood.Service
	Habits *habit.Service
}

// PeriodWindow resolves a period kind to the window ending at now.
func PeriodWindow(period string, now time.Time) (from, to time.Time, err error) {
	switch period {
	case PeriodWeek:
		return now.AddDate(0, 0, -7), now, nil
	case PeriodMonth:
		return now.AddDate(0, -1, 0), now, nil
	case PeriodYear:
		return now.AddDate(-1, 0, 0), now, nil
	default:
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}
}

// Generate aggregates the user's mood records over the period window ending
// now, persists the resulting insight, and returns it. A window with no
// mood records is rejected with ErrNoMoodData rather than producing a zero
// summary.
func (s *Service) Generate(ctx context.Context, userID uint64, period string, now time.Time) (*Insight, error) {
	from, to, err := PeriodWindow(period, now)
	if err != nil {
		return nil, err
	}

	moods, err := s.Moods.Range(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	if len(moods) == 0 {
		return nil, ErrNoMoodData
	}

	habits, err := s.Habits.List(ctx, userID, habit.StateActive)
	if err != nil {
		return nil, err
	}

	counts, avg, dominant := summarize(moods)

	// No correlation math happens here: the field snapshots the first
	// handful of active habits in listing order.
	refs := make([]HabitRef, 0, topHabitsLimit)
	for _, h := range habits {
		if len(refs) == topHabitsLimit {
			break
		}
		refs = append(refs, HabitRef{ID: h.ID, Name: h.Name})
	}

	ins := Insight{
		UserID:           userID,
		Period:           period,
		PeriodStart:      from,
		PeriodEnd:        to,
		AverageMoodScore: avg,
		DominantCategory: string(dominant),
		MoodCounts:       datatypes.NewJSONType(counts),
		TopHabits:        datatypes.NewJSONType(refs),
		Summary:          summaryText(period, dominant, avg, len(moods)),
	}
	if err := s.DB.WithContext(ctx).Create(&ins).Error; err != nil {
		return nil, err
	}
	s.Log.Infow("insight generated", "user_id", userID, "period", period, "moods", len(moods))
	return &ins, nil
}

// Recent lists the user's insights, newest first.
func (s *Service) Recent(ctx context.Context, userID uint64, limit int) ([]Insight, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var out []Insight
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// summarize is the single pass over the period's mood rows: per-category
// counts (unknown bucket for malformed rows), average intensity as a
// 2-decimal fixed-point string, and the dominant category with ties going
// to the earliest-declared category.
func summarize(moods []mood.Record) (counts []mood.CategoryCount, avg string, dominant mood.Category) {
	byCat := make(map[mood.Category]int, len(mood.Categories)+1)
	for _, c := range mood.Categories {
		byCat[c] = 0
	}

	sum := 0
	for _, r := range moods {
		byCat[mood.NormalizeCategory(r.Category)]++
		sum += r.Intensity
	}

	for _, c := range mood.Categories {
		counts = append(counts, mood.CategoryCount{Category: c, Count: byCat[c]})
	}
	if n := byCat[mood.CategoryUnknown]; n > 0 {
		counts = append(counts, mood.CategoryCount{Category: mood.CategoryUnknown, Count: n})
	}

	dominant = counts[0].Category
	best := counts[0].Count
	for _, cc := range counts[1:] {
		if cc.Count > best {
			dominant, best = cc.Category, cc.Count
		}
	}

	return counts, formatScore(sum, len(moods)), dominant
}

// formatScore renders sum/n to two decimal places using integer
// arithmetic, rounding half away from zero. Intensities are non-negative
// so only the positive case matters.
func formatScore(sum, n int) string {
	cents := (sum*100*2 + n) / (2 * n)
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func summaryText(period string, dominant mood.Category, avg string, n int) string {
	return fmt.Sprintf(
		"During this %s, your dominant mood was %s with an average intensity of %s/10. You tracked %d mood entries.",
		period, dominant, avg, n,
	)
}
