package storage

import (
	"context"
	"io"
)

// UploadResult describes a stored logo object. Key is what the
// registration row keeps; GetPublicURL turns it back into an address
// the frontend can serve.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores registration logos in an object bucket. Upload
// replaces any object already stored under key, so a registration holds
// at most one logo object at a time.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	// GetPublicURL maps a stored key to its public address. Returns an
	// empty string when the bucket has no public endpoint configured.
	GetPublicURL(key string) string
}
