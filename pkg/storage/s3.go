package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/dolpin-app/backend/config"
)

type s3Storage struct {
	svc *s3.S3
	cfg config.S3Configs
}

func NewS3Storage(cfg config.S3Configs) Storage {
	session, _ := session.NewSession(&aws.Config{
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Endpoint:         aws.String(cfg.Endpoint),
		S3ForcePathStyle: aws.Bool(true),
		DisableSSL:       aws.Bool(cfg.SSLDisabled),
	})

	return &s3Storage{
		svc: s3.New(session),
		cfg: cfg,
	}
}

func (s *s3Storage) GeneratePresignedUploadURL(
	ctx context.Context, key, contentType string,
) (*PresignedUpload, error) {
	req, _ := s.svc.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})

	url, err := req.Presign(s.cfg.PresignedURLExpiration)
	if err != nil {
		return nil, fmt.Errorf("presign failed: %w, bucket %s, key %s", err, s.cfg.Bucket, key)
	}

	return &PresignedUpload{
		UploadURL: url,
		Key:       key,
		PublicURL: fmt.Sprintf("%s/%s/%s", s.cfg.PublicEndpoint, s.cfg.Bucket, key),
	}, nil
}

func (s *s3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete failed: %w, bucket %s, key %s", err, s.cfg.Bucket, key)
	}

	return nil
}
