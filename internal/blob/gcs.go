// Package blob is the binary-storage collaborator: bytes go to a GCS
// bucket, only metadata and URLs stay in the database.
package blob

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type GCS struct {
	client    *storage.Client
	bucket    string
	cdnDomain string
}

func NewGCS(ctx context.Context, bucket, credentialsPath, cdnDomain string) (*GCS, error) {
	if bucket == "" {
		return nil, fmt.Errorf("blob: bucket name required")
	}

	var (
		client *storage.Client
		err    error
	)
	if credentialsPath != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credentialsPath), option.WithScopes(storage.ScopeReadWrite))
	} else {
		client, err = storage.NewClient(ctx, option.WithScopes(storage.ScopeReadWrite))
	}
	if err != nil {
		return nil, fmt.Errorf("blob: create storage client: %w", err)
	}

	return &GCS{client: client, bucket: bucket, cdnDomain: cdnDomain}, nil
}

func (g *GCS) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("blob: write object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("blob: close writer for %q: %w", key, err)
	}
	return nil
}

func (g *GCS) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := g.client.Bucket(g.bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("blob: delete object %q: %w", key, err)
	}
	return nil
}

func (g *GCS) PublicURL(key string) string {
	if g.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", g.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, key)
}
