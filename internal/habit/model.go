package habit

import "time"

const (
	StateActive   = "active"
	StateArchived = "archived"
)

// Habit is user-owned. Archiving is a soft delete: the row stays, along
// with its completion history, but drops out of active listings.
type Habit struct {
	ID          uint64    `gorm:"primaryKey"`
	UserID      uint64    `gorm:"index;not null"`
	Name        string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text;not null;default:''"`
	State       string    `gorm:"index;not null;default:'active'"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Completion is one row per (habit, user, calendar day), maintained by the
// upsert path. CompletedAt is set only while Completed is true.
type Completion struct {
	ID          uint64     `gorm:"primaryKey"`
	HabitID     uint64     `gorm:"index;not null"`
	UserID      uint64     `gorm:"index;not null"`
	Date        time.Time  `gorm:"index;not null"`
	Completed   bool       `gorm:"not null;default:false"`
	Notes       string     `gorm:"type:text;not null;default:''"`
	CompletedAt *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Completion) TableName() string { return "habit_completions" }
