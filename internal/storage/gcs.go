package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStorage - Google Cloud Storage. Объекты читаются публично по BaseURL.
type GCSStorage struct {
	client  *gcs.Client
	bucket  string
	baseURL string
}

// NewGCSStorage creates a GCS client. If CredentialsFile is empty, ADC is used.
func NewGCSStorage(ctx context.Context, cfg Config) (*GCSStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}

	var (
		client *gcs.Client
		err    error
	)
	if cfg.CredentialsFile == "" {
		client, err = gcs.NewClient(ctx)
	} else {
		client, err = gcs.NewClient(ctx, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create gcs client: %w", err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://storage.googleapis.com/%s", cfg.Bucket)
	}
	return &GCSStorage{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

func (s *GCSStorage) Save(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error {
	wc := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // small files, no chunking
	if _, err := io.Copy(wc, reader); err != nil {
		_ = wc.Close()
		return fmt.Errorf("upload %s: %w", path, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	return nil
}

func (s *GCSStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	rc, err := s.client.Bucket(s.bucket).Object(path).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", path, err)
	}
	return rc, nil
}

func (s *GCSStorage) Delete(ctx context.Context, path string) error {
	err := s.client.Bucket(s.bucket).Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (s *GCSStorage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.Bucket(s.bucket).Object(path).Attrs(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *GCSStorage) GetURL(ctx context.Context, path string) (string, error) {
	return joinURL(s.baseURL, path), nil
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}
