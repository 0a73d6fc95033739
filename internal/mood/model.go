package mood

import "time"

// Category is the closed set of mood values. Stored rows that carry
// anything else are read back as CategoryUnknown instead of failing.
type Category string

const (
	CategoryExcellent Category = "excellent"
	CategoryGood      Category = "good"
	CategoryNeutral   Category = "neutral"
	CategorySad       Category = "sad"
	CategoryTerrible  Category = "terrible"
	CategoryUnknown   Category = "unknown"
)

// Categories lists the known values in declaration order. The order is
// observable: dominant-category ties resolve to the earliest entry.
var Categories = []Category{
	CategoryExcellent,
	CategoryGood,
	CategoryNeutral,
	CategorySad,
	CategoryTerrible,
}

func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return CategoryUnknown, false
}

// NormalizeCategory maps malformed or empty stored values to unknown.
func NormalizeCategory(s string) Category {
	if c, ok := ParseCategory(s); ok {
		return c
	}
	return CategoryUnknown
}

const (
	MinIntensity = 1
	MaxIntensity = 10
)

// Record is one mood per (user, calendar day). The invariant is enforced
// by the upsert path, not by a unique constraint.
type Record struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    uint64    `gorm:"index;not null"`
	Date      time.Time `gorm:"index;not null"`
	Category  string    `gorm:"type:text;not null"`
	Intensity int       `gorm:"not null"`
	Notes     string    `gorm:"type:text;not null;default:''"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Record) TableName() string { return "mood_records" }
