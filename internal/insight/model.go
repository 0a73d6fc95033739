package insight

import (
	"time"

	"gorm.io/datatypes"

	"journal/internal/mood"
)

const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// HabitRef is the {id, name} pair snapshotted into TopHabits.
type HabitRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Insight is a persisted period summary. Rows are not unique per window;
// callers treat the most recent one as authoritative.
type Insight struct {
	ID          uint64    `gorm:"primaryKey"`
	UserID      uint64    `gorm:"index;not null"`
	Period      string    `gorm:"index;not null"` // week | month | year
	PeriodStart time.Time `gorm:"not null"`
	PeriodEnd   time.Time `gorm:"not null"`

	// Fixed-point 2-decimal string, e.g. "5.00". Kept as text so no float
	// round-trip can change the rendered value.
	AverageMoodScore string `gorm:"type:text;not null"`
	DominantCategory string `gorm:"type:text;not null"`

	MoodCounts datatypes.JSONType[[]mood.CategoryCount]
	TopHabits  datatypes.JSONType[[]HabitRef]

	Summary   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Insight) TableName() string { return "period_insights" }
