package repository

import (
	"context"
	"time"

	"github.com/dolpin-app/backend/internal/entity"
	"github.com/dolpin-app/backend/pkg/xcontext"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *entity.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*entity.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllByUserID(ctx context.Context, userID int64) error
	DeleteExpiredBefore(ctx context.Context, before time.Time) error
}

type refreshTokenRepository struct{}

func NewRefreshTokenRepository() *refreshTokenRepository {
	return &refreshTokenRepository{}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *entity.RefreshToken) error {
	return xcontext.DB(ctx).Create(token).Error
}

func (r *refreshTokenRepository) GetByToken(
	ctx context.Context, token string,
) (*entity.RefreshToken, error) {
	var result entity.RefreshToken
	err := xcontext.DB(ctx).
		Joins("join users on users.id=refresh_tokens.user_id").
		Take(&result, "refresh_tokens.token=?", token).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, token string) error {
	return xcontext.DB(ctx).
		Model(&entity.RefreshToken{}).
		Where("token=?", token).
		Update("status", entity.TokenStatusRevoked).Error
}

func (r *refreshTokenRepository) RevokeAllByUserID(ctx context.Context, userID int64) error {
	return xcontext.DB(ctx).
		Model(&entity.RefreshToken{}).
		Where("user_id=? AND status=?", userID, entity.TokenStatusActive).
		Update("status", entity.TokenStatusRevoked).Error
}

func (r *refreshTokenRepository) DeleteExpiredBefore(ctx context.Context, before time.Time) error {
	return xcontext.DB(ctx).
		Delete(&entity.RefreshToken{}, "expired_at<?", before).Error
}
