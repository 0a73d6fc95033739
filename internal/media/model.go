package media

import "time"

// Attachment is metadata only; the bytes live in blob storage under
// ObjectKey. EntryID optionally links the attachment to one diary entry.
type Attachment struct {
	ID      uint64  `gorm:"primaryKey"`
	UserID  uint64  `gorm:"index;not null"`
	EntryID *uint64 `gorm:"index"`

	ObjectKey   string `gorm:"type:text;not null"`
	URL         string `gorm:"type:text;not null"`
	FileName    string `gorm:"type:text;not null"`
	ContentType string `gorm:"type:text;not null"`
	SizeBytes   int64  `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Attachment) TableName() string { return "media_attachments" }
