package testutil

import (
	"context"

	"github.com/dolpin-app/backend/pkg/storage"
)

type MockStorage struct {
	GeneratePresignedUploadURLFunc func(ctx context.Context, key, contentType string) (*storage.PresignedUpload, error)
	DeleteFunc                     func(ctx context.Context, key string) error
}

func (m *MockStorage) GeneratePresignedUploadURL(
	ctx context.Context, key, contentType string,
) (*storage.PresignedUpload, error) {
	if m.GeneratePresignedUploadURLFunc != nil {
		return m.GeneratePresignedUploadURLFunc(ctx, key, contentType)
	}

	return &storage.PresignedUpload{
		UploadURL: "https://storage.example.com/upload/" + key,
		Key:       key,
		PublicURL: "https://storage.example.com/" + key,
	}, nil
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}

	return nil
}
