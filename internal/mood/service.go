package mood

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"journal/internal/timeutil"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidIntensity = errors.New("invalid intensity")
)

type Service struct {
	DB  *gorm.DB
	Log *zap.SugaredLogger
}

type UpsertInput struct {
	Date      time.Time
	Category  Category
	Intensity int
	Notes     string
}

// Upsert records the mood for the calendar day containing in.Date. One row
// per (user, day): an existing row in the day window is overwritten in
// place, otherwise a new row is inserted carrying the original instant.
// Read-then-write, no locking; concurrent calls for the same day are
// last-write-wins.
func (s *Service) Upsert(ctx context.Context, userID uint64, in UpsertInput) error {
	if _, ok := ParseCategory(string(in.Category)); !ok {
		return ErrInvalidCategory
	}
	if in.Intensity < MinIntensity || in.Intensity > MaxIntensity {
		return ErrInvalidIntensity
	}

	dayStart, dayEnd := timeutil.DayWindow(in.Date)

	var existing Record
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, dayStart, dayEnd).
		Order("id asc").
		First(&existing).Error

	switch {
	case err == nil:
		// Intensity is overwritten unconditionally, not merged.
		return s.DB.WithContext(ctx).Model(&Record{}).
			Where("id = ?", existing.ID).
			Updates(map[string]any{
				"category":   string(in.Category),
				"intensity":  in.Intensity,
				"notes":      in.Notes,
				"updated_at": time.Now(),
			}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec := Record{
			UserID:    userID,
			Date:      in.Date, // original instant, not dayStart
			Category:  string(in.Category),
			Intensity: in.Intensity,
			Notes:     in.Notes,
		}
		return s.DB.WithContext(ctx).Create(&rec).Error
	default:
		return err
	}
}

// ForDay returns the record for the calendar day containing t.
func (s *Service) ForDay(ctx context.Context, userID uint64, t time.Time) (*Record, error) {
	dayStart, dayEnd := timeutil.DayWindow(t)

	var rec Record
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, dayStart, dayEnd).
		Order("id asc").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Range returns the user's records with date in [from, to], oldest first.
func (s *Service) Range(ctx context.Context, userID uint64, from, to time.Time) ([]Record, error) {
	var recs []Record
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date asc").
		Find(&recs).Error
	return recs, err
}

type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

type TrendPoint struct {
	Day              string  `json:"day"`
	AverageIntensity float64 `json:"average_intensity"`
}

type Stats struct {
	Total        int             `json:"total"`
	Distribution []CategoryCount `json:"distribution"`
	Trend        []TrendPoint    `json:"trend"`
}

// Stats computes the display-only distribution and per-day trend over
// [from, to]. All five known categories appear in the distribution even at
// zero; malformed stored categories count under "unknown". Trend buckets
// are keyed by the record date's own calendar day and averaged to one
// decimal place.
func (s *Service) Stats(ctx context.Context, userID uint64, from, to time.Time) (Stats, error) {
	recs, err := s.Range(ctx, userID, from, to)
	if err != nil {
		return Stats{}, err
	}

	counts := make(map[Category]int, len(Categories)+1)
	for _, c := range Categories {
		counts[c] = 0
	}

	type dayAcc struct {
		sum int
		n   int
	}
	days := map[string]*dayAcc{}

	for _, r := range recs {
		counts[NormalizeCategory(r.Category)]++
		key := timeutil.DayKey(r.Date)
		acc := days[key]
		if acc == nil {
			acc = &dayAcc{}
			days[key] = acc
		}
		acc.sum += r.Intensity
		acc.n++
	}

	out := Stats{Total: len(recs)}
	for _, c := range Categories {
		out.Distribution = append(out.Distribution, CategoryCount{Category: c, Count: counts[c]})
	}
	if n := counts[CategoryUnknown]; n > 0 {
		out.Distribution = append(out.Distribution, CategoryCount{Category: CategoryUnknown, Count: n})
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		acc := days[k]
		avg := math.Round(float64(acc.sum)/float64(acc.n)*10) / 10
		out.Trend = append(out.Trend, TrendPoint{Day: k, AverageIntensity: avg})
	}

	return out, nil
}
