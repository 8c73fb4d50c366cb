package supabase

import (
	"bytes"
	"context"
	"fmt"

	storage "github.com/supabase-community/storage-go"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

// Storage implements domain.ObjectStorage on one public bucket.
type Storage struct {
	c      *Client
	bucket string
}

var _ domain.ObjectStorage = (*Storage)(nil)

func NewStorage(c *Client, bucket string) *Storage {
	return &Storage{c: c, bucket: bucket}
}

// client builds a storage client per call: storage-go keeps upload options
// in headers shared by every request of a client.
func (s *Storage) client() *storage.Client {
	return storage.NewClient(s.c.baseURL+"/storage/v1", s.c.serviceKey, map[string]string{
		"apikey": s.c.anonKey,
	})
}

// Put uploads without overwriting and returns the object's public URL.
func (s *Storage) Put(ctx context.Context, path, contentType string, data []byte) (string, error) {
	cacheControl := "3600"
	upsert := false
	err := withContext(ctx, func() error {
		_, err := s.client().UploadFile(s.bucket, path, bytes.NewReader(data), storage.FileOptions{
			CacheControl: &cacheControl,
			ContentType:  &contentType,
			Upsert:       &upsert,
		})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	return s.PublicURL(path), nil
}

func (s *Storage) Remove(ctx context.Context, path string) error {
	err := withContext(ctx, func() error {
		_, err := s.client().RemoveFile(s.bucket, []string{path})
		return err
	})
	if err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

func (s *Storage) PublicURL(path string) string {
	return s.client().GetPublicUrl(s.bucket, path).SignedURL
}

// withContext runs a storage-go call, which takes no context, and stops
// waiting for it when ctx ends.
func withContext(ctx context.Context, call func() error) error {
	done := make(chan error, 1)
	go func() { done <- call() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
