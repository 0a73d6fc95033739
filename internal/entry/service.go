package entry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"journal/internal/mood"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrEmptyContent = errors.New("content required")
	ErrInvalidMood  = errors.New("invalid mood")
)

type Service struct {
	DB  *gorm.DB
	Log *zap.SugaredLogger
}

type CreateInput struct {
	Date    time.Time
	Title   string
	Content string
	Mood    string
}

func (s *Service) Create(ctx context.Context, userID uint64, in CreateInput) (*Entry, error) {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return nil, ErrEmptyContent
	}
	if in.Mood != "" {
		if _, ok := mood.ParseCategory(in.Mood); !ok {
			return nil, ErrInvalidMood
		}
	}
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	e := Entry{
		UserID:  userID,
		Date:    date,
		Title:   strings.TrimSpace(in.Title),
		Content: in.Content,
		Mood:    in.Mood,
		Tags:    pq.StringArray(ExtractTags(in.Content)),
	}
	if err := s.DB.WithContext(ctx).Create(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Service) Get(ctx context.Context, userID, entryID uint64) (*Entry, error) {
	var e Entry
	err := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

type ListFilter struct {
	From  *time.Time
	To    *time.Time
	Tag   string
	Query string
	Limit int
}

// List returns the user's entries newest first, optionally filtered by a
// date window, a tag, or a content substring.
func (s *Service) List(ctx context.Context, userID uint64, f ListFilter) ([]Entry, error) {
	q := s.DB.WithContext(ctx).Model(&Entry{}).Where("user_id = ?", userID)

	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date <= ?", *f.To)
	}
	if tag := strings.TrimSpace(strings.ToLower(f.Tag)); tag != "" {
		q = q.Where("? = any(tags)", tag)
	}
	if text := strings.TrimSpace(f.Query); text != "" {
		q = q.Where("content ILIKE ?", "%"+text+"%")
	}

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var rows []Entry
	err := q.Order("date desc").Limit(limit).Find(&rows).Error
	return rows, err
}

type UpdateInput struct {
	Title   *string
	Content *string
	Mood    *string
}

func (s *Service) Update(ctx context.Context, userID, entryID uint64, in UpdateInput) (*Entry, error) {
	e, err := s.Get(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Title != nil {
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		content := strings.TrimSpace(*in.Content)
		if content == "" {
			return nil, ErrEmptyContent
		}
		updates["content"] = content
		updates["tags"] = pq.StringArray(ExtractTags(content))
	}
	if in.Mood != nil {
		if *in.Mood != "" {
			if _, ok := mood.ParseCategory(*in.Mood); !ok {
				return nil, ErrInvalidMood
			}
		}
		updates["mood"] = *in.Mood
	}
	if len(updates) == 0 {
		return e, nil
	}
	updates["updated_at"] = time.Now()

	if err := s.DB.WithContext(ctx).Model(&Entry{}).Where("id = ?", e.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, entryID)
}

func (s *Service) Delete(ctx context.Context, userID, entryID uint64) error {
	res := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&Entry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
