package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"journal/internal/entry"
	"journal/internal/logger"
)

// memStore keeps objects in a map so upload plumbing can be exercised
// without a bucket.
type memStore struct {
	objects map[string][]byte
	deleted []string
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) Put(_ context.Context, key, _ string, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = b
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memStore) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

func testService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&entry.Entry{}, &Attachment{}))

	store := newMemStore()
	return &Service{DB: gdb, Log: logger.Nop(), Blob: store}, store
}

func TestUploadStoresBlobAndMetadata(t *testing.T) {
	svc, store := testService(t)

	att, err := svc.Upload(context.Background(), 1, UploadInput{
		FileName:    "sunset.jpg",
		ContentType: "image/jpeg",
		Body:        bytes.NewReader([]byte("jpegbytes")),
	})
	require.NoError(t, err)

	assert.Equal(t, "sunset.jpg", att.FileName)
	assert.Equal(t, "image/jpeg", att.ContentType)
	assert.EqualValues(t, 9, att.SizeBytes)
	assert.True(t, strings.HasPrefix(att.ObjectKey, "media/1/"))
	assert.True(t, strings.HasSuffix(att.ObjectKey, ".jpg"))
	assert.Equal(t, "https://cdn.test/"+att.ObjectKey, att.URL)
	assert.Equal(t, []byte("jpegbytes"), store.objects[att.ObjectKey])
}

func TestUploadEmptyFileRejected(t *testing.T) {
	svc, _ := testService(t)
	_, err := svc.Upload(context.Background(), 1, UploadInput{
		FileName: "empty.png",
		Body:     bytes.NewReader(nil),
	})
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestUploadLinkRequiresOwnedEntry(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	entrySvc := &entry.Service{DB: svc.DB, Log: logger.Nop()}
	e, err := entrySvc.Create(ctx, 2, entry.CreateInput{Content: "someone else's day"})
	require.NoError(t, err)

	_, err = svc.Upload(ctx, 1, UploadInput{
		EntryID:  &e.ID,
		FileName: "photo.png",
		Body:     bytes.NewReader([]byte("png")),
	})
	assert.ErrorIs(t, err, ErrUnknownEntry)

	// the owner can link
	att, err := svc.Upload(ctx, 2, UploadInput{
		EntryID:  &e.ID,
		FileName: "photo.png",
		Body:     bytes.NewReader([]byte("png")),
	})
	require.NoError(t, err)
	require.NotNil(t, att.EntryID)
	assert.Equal(t, e.ID, *att.EntryID)
}

func TestDeleteRemovesRowAndBlob(t *testing.T) {
	svc, store := testService(t)
	ctx := context.Background()

	att, err := svc.Upload(ctx, 1, UploadInput{
		FileName: "note.txt",
		Body:     bytes.NewReader([]byte("txt")),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, 2, att.ID), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, 1, att.ID))

	rows, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, []string{att.ObjectKey}, store.deleted)
}
