// Package storage keeps rendered charts and source CSVs in object storage.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Supported backends
const (
	BackendS3    = "s3"
	BackendMinio = "minio"
	BackendNone  = "none"
)

const (
	ContentTypePNG = "image/png"
	ContentTypeCSV = "text/csv"

	DownloadURLExpiry = 24 * time.Hour
)

// ObjectStore handles file storage operations
type ObjectStore interface {
	UploadFile(ctx context.Context, key string, contentType string, data []byte) error
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
	DownloadFile(ctx context.Context, key string) ([]byte, error)
	DeleteFile(ctx context.Context, key string) error
}

// Config holds configuration for the object store
type Config struct {
	Backend   string
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// New returns the store for cfg.Backend. The "none" backend returns a nil store.
func New(ctx context.Context, cfg Config) (ObjectStore, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendS3:
		return NewS3Service(cfg)
	case BackendMinio:
		return NewMinioService(ctx, cfg)
	case "", BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// ChartKey is the object key of a rendered chart
func ChartKey(id string) string {
	return fmt.Sprintf("charts/%s.png", id)
}

// SourceKey is the object key of the CSV a chart was rendered from
func SourceKey(id string) string {
	return fmt.Sprintf("sources/%s.csv", id)
}

// validateContentType validates that the content type is supported
func validateContentType(contentType string) error {
	validTypes := map[string]bool{
		ContentTypePNG: true,
		ContentTypeCSV: true,
	}

	if !validTypes[contentType] {
		return fmt.Errorf("invalid content type: %s. Supported types: image/png, text/csv", contentType)
	}

	return nil
}
