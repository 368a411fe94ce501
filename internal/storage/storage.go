package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage - хранилище загруженных файлов (галерея)
type Storage interface {
	// Save stores a file at the given path
	Save(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error

	// Get retrieves a file from the given path
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file at the given path. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// Exists checks if a file exists at the given path
	Exists(ctx context.Context, path string) (bool, error)

	// GetURL returns a public URL for the file
	GetURL(ctx context.Context, path string) (string, error)
}

// Config holds storage configuration
type Config struct {
	Type            string // local, gcs, minio
	BasePath        string // For local storage
	BaseURL         string // Public URL base
	Bucket          string // For GCS/MinIO
	Endpoint        string // For MinIO
	AccessKey       string // For MinIO
	SecretKey       string // For MinIO
	UseSSL          bool   // For MinIO
	CredentialsFile string // For GCS, пусто - Application Default Credentials
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "gcs":
		return NewGCSStorage(ctx, cfg)
	case "minio":
		return NewMinioStorage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

func joinURL(base, path string) string {
	if base == "" {
		return path
	}
	if base[len(base)-1] == '/' {
		return base + path
	}
	return base + "/" + path
}
