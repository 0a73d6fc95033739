package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"journal/internal/blob"
	"journal/internal/entry"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrEmptyFile    = errors.New("empty file")
	ErrUnknownEntry = errors.New("unknown entry")
	ErrTooLarge     = errors.New("file too large")
)

const maxUploadBytes = 16 << 20 // 16 MiB

type Service struct {
	DB   *gorm.DB
	Log  *zap.SugaredLogger
	Blob blob.Store
}

type UploadInput struct {
	EntryID     *uint64
	FileName    string
	ContentType string
	Body        io.Reader
}

// Upload pushes the payload to blob storage and records a metadata row.
// A linked entry must belong to the uploading user.
func (s *Service) Upload(ctx context.Context, userID uint64, in UploadInput) (*Attachment, error) {
	if in.EntryID != nil {
		var n int64
		err := s.DB.WithContext(ctx).Model(&entry.Entry{}).
			Where("id = ? AND user_id = ?", *in.EntryID, userID).
			Count(&n).Error
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, ErrUnknownEntry
		}
	}

	var buf bytes.Buffer
	size, err := io.Copy(&buf, io.LimitReader(in.Body, maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, ErrEmptyFile
	}
	if size > maxUploadBytes {
		return nil, ErrTooLarge
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("media/%d/%s%s", userID, uuid.NewString(), filepath.Ext(in.FileName))
	if err := s.Blob.Put(ctx, key, contentType, &buf); err != nil {
		return nil, err
	}

	att := Attachment{
		UserID:      userID,
		EntryID:     in.EntryID,
		ObjectKey:   key,
		URL:         s.Blob.PublicURL(key),
		FileName:    filepath.Base(in.FileName),
		ContentType: contentType,
		SizeBytes:   size,
	}
	if err := s.DB.WithContext(ctx).Create(&att).Error; err != nil {
		return nil, err
	}
	return &att, nil
}

// List returns the user's attachments, newest first.
func (s *Service) List(ctx context.Context, userID uint64) ([]Attachment, error) {
	var rows []Attachment
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc").
		Find(&rows).Error
	return rows, err
}

// Delete removes the metadata row, then best-effort deletes the blob. A
// dangling object is acceptable; a dangling row is not.
func (s *Service) Delete(ctx context.Context, userID, attachmentID uint64) error {
	var att Attachment
	err := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", attachmentID, userID).
		First(&att).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := s.DB.WithContext(ctx).Delete(&Attachment{}, att.ID).Error; err != nil {
		return err
	}
	if err := s.Blob.Delete(ctx, att.ObjectKey); err != nil {
		s.Log.Warnw("orphaned blob object", "key", att.ObjectKey, "err", err)
	}
	return nil
}
