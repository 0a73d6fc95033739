package entry

import (
	"time"

	"github.com/lib/pq"
)

// Entry is a diary entry. Loosely one per day: the UI assumes it, nothing
// enforces it.
type Entry struct {
	ID      uint64    `gorm:"primaryKey"`
	UserID  uint64    `gorm:"index;not null"`
	Date    time.Time `gorm:"index;not null"`
	Title   string    `gorm:"type:text;not null;default:''"`
	Content string    `gorm:"type:text;not null"`

	// Mood is an optional snapshot of the day's mood category; the
	// authoritative record lives in mood_records.
	Mood string `gorm:"type:text;not null;default:''"`

	Tags pq.StringArray `gorm:"type:text[];not null;default:'{}'"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Entry) TableName() string { return "diary_entries" }
