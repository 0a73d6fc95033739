package habit

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"journal/internal/timeutil"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidName = errors.New("name required")
)

type Service struct {
	DB  *gorm.DB
	Log *zap.SugaredLogger
}

type CreateInput struct {
	Name        string
	Description string
}

func (s *Service) Create(ctx context.Context, userID uint64, in CreateInput) (*Habit, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, ErrInvalidName
	}
	h := Habit{
		UserID:      userID,
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		State:       StateActive,
	}
	if err := s.DB.WithContext(ctx).Create(&h).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

type UpdateInput struct {
	Name        *string
	Description *string
}

func (s *Service) Update(ctx context.Context, userID, habitID uint64, in UpdateInput) (*Habit, error) {
	h, err := s.get(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		updates["name"] = name
	}
	if in.Description != nil {
		updates["description"] = strings.TrimSpace(*in.Description)
	}
	if len(updates) == 0 {
		return h, nil
	}
	updates["updated_at"] = time.Now()

	if err := s.DB.WithContext(ctx).Model(&Habit{}).Where("id = ?", h.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.get(ctx, userID, habitID)
}

// List returns the user's habits in one lifecycle state, oldest first.
func (s *Service) List(ctx context.Context, userID uint64, state string) ([]Habit, error) {
	var habits []Habit
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND state = ?", userID, state).
		Order("id asc").
		Find(&habits).Error
	return habits, err
}

// Archive hides the habit from active listings. Completion history stays.
func (s *Service) Archive(ctx context.Context, userID, habitID uint64) error {
	return s.setState(ctx, userID, habitID, StateArchived)
}

func (s *Service) Restore(ctx context.Context, userID, habitID uint64) error {
	return s.setState(ctx, userID, habitID, StateActive)
}

func (s *Service) setState(ctx context.Context, userID, habitID uint64, state string) error {
	res := s.DB.WithContext(ctx).Model(&Habit{}).
		Where("id = ? AND user_id = ?", habitID, userID).
		Updates(map[string]any{"state": state, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) get(ctx context.Context, userID, habitID uint64) (*Habit, error) {
	var h Habit
	err := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", habitID, userID).
		First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

type CompletionInput struct {
	Date      time.Time
	Completed bool
	Notes     string
}

// SetCompletion upserts the completion row for the calendar day containing
// in.Date, scoped to (habit, user). CompletedAt is stamped when the row
// transitions to completed and cleared when completed is false. Same
// read-then-write sequence as the mood upsert; not transactionally safe.
func (s *Service) SetCompletion(ctx context.Context, userID, habitID uint64, in CompletionInput) error {
	if _, err := s.get(ctx, userID, habitID); err != nil {
		return err
	}

	dayStart, dayEnd := timeutil.DayWindow(in.Date)

	var existing Completion
	err := s.DB.WithContext(ctx).
		Where("habit_id = ? AND user_id = ? AND date >= ? AND date <= ?", habitID, userID, dayStart, dayEnd).
		Order("id asc").
		First(&existing).Error

	now := time.Now()
	switch {
	case err == nil:
		var completedAt *time.Time
		if in.Completed {
			completedAt = existing.CompletedAt
			if !existing.Completed {
				completedAt = &now
			}
		}
		return s.DB.WithContext(ctx).Model(&Completion{}).
			Where("id = ?", existing.ID).
			Updates(map[string]any{
				"completed":    in.Completed,
				"notes":        in.Notes,
				"completed_at": completedAt,
				"updated_at":   now,
			}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		c := Completion{
			HabitID:   habitID,
			UserID:    userID,
			Date:      in.Date, // original instant, not dayStart
			Completed: in.Completed,
			Notes:     in.Notes,
		}
		if in.Completed {
			c.CompletedAt = &now
		}
		return s.DB.WithContext(ctx).Create(&c).Error
	default:
		return err
	}
}

// Completions returns the habit's completion rows with date in [from, to],
// oldest first.
func (s *Service) Completions(ctx context.Context, userID, habitID uint64, from, to time.Time) ([]Completion, error) {
	if _, err := s.get(ctx, userID, habitID); err != nil {
		return nil, err
	}
	var recs []Completion
	err := s.DB.WithContext(ctx).
		Where("habit_id = ? AND user_id = ? AND date >= ? AND date <= ?", habitID, userID, from, to).
		Order("date asc").
		Find(&recs).Error
	return recs, err
}
