package domain

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dolpin-app/backend/internal/model"
	"github.com/dolpin-app/backend/pkg/errorx"
	"github.com/dolpin-app/backend/pkg/storage"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"github.com/google/uuid"
)

var (
	allowedUploadTypes = map[string]bool{
		"profile": true,
		"moment":  true,
	}

	allowedContentTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
	}

	allowedExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
	}
)

type StorageDomain interface {
	GeneratePresignedURL(context.Context, *model.GeneratePresignedURLRequest) (*model.GeneratePresignedURLResponse, error)
}

type storageDomain struct {
	storage storage.Storage
}

func NewStorageDomain(storage storage.Storage) StorageDomain {
	return &storageDomain{storage: storage}
}

func (d *storageDomain) GeneratePresignedURL(
	ctx context.Context, req *model.GeneratePresignedURLRequest,
) (*model.GeneratePresignedURLResponse, error) {
	if !allowedUploadTypes[req.UploadType] {
		return nil, errorx.New(errorx.BadRequest, "Unsupported upload type %s", req.UploadType)
	}

	if !allowedContentTypes[req.ContentType] {
		return nil, errorx.New(errorx.BadRequest, "Unsupported content type %s", req.ContentType)
	}

	ext := strings.ToLower(filepath.Ext(req.FileName))
	if !allowedExtensions[ext] {
		return nil, errorx.New(errorx.BadRequest, "Unsupported file extension %s", ext)
	}

	if maxSize := xcontext.Configs(ctx).File.MaxSize; maxSize > 0 && req.FileSize > int64(maxSize) {
		return nil, errorx.New(errorx.BadRequest, "File is larger than %d bytes", maxSize)
	}

	key := fmt.Sprintf("%s/u%d/%s%s",
		req.UploadType, xcontext.RequestUserID(ctx), uuid.NewString()[:8], ext)

	upload, err := d.storage.GeneratePresignedUploadURL(ctx, key, req.ContentType)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate presigned url: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GeneratePresignedURLResponse{
		SignedURL: upload.UploadURL,
		ObjectURL: upload.PublicURL,
		ExpiresIn: int64(xcontext.Configs(ctx).Storage.PresignedURLExpiration.Seconds()),
	}, nil
}
