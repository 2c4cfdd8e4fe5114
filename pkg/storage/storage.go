package storage

import "context"

// PresignedUpload is returned to client so it can PUT the file to object
// storage directly.
type PresignedUpload struct {
	UploadURL string
	Key       string
	PublicURL string
}

type Storage interface {
	// GeneratePresignedUploadURL creates a short-lived URL which accepts a
	// single PUT of the object.
	GeneratePresignedUploadURL(ctx context.Context, key, contentType string) (*PresignedUpload, error)

	// Delete removes the object from storage.
	Delete(ctx context.Context, key string) error
}
