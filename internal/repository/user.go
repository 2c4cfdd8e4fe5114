package repository

import (
	"context"

	"github.com/dolpin-app/backend/internal/entity"
	"github.com/dolpin-app/backend/pkg/xcontext"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByProvider(ctx context.Context, provider, providerID string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdateByID(ctx context.Context, id int64, data *entity.User) error
	MarkProfileCompleted(ctx context.Context, id int64) error
	DeleteByID(ctx context.Context, id int64) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return xcontext.DB(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByProvider(
	ctx context.Context, provider, providerID string,
) (*entity.User, error) {
	var result entity.User
	err := xcontext.DB(ctx).
		Take(&result, "provider=? AND provider_id=?", provider, providerID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "username=?", username).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) UpdateByID(ctx context.Context, id int64, data *entity.User) error {
	return xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Updates(data).Error
}

// MarkProfileCompleted clears the new user flag. Updates with a struct skips
// zero values, so the flag needs an explicit update.
func (r *userRepository) MarkProfileCompleted(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Update("is_new_user", false).Error
}

func (r *userRepository) DeleteByID(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).Delete(&entity.User{}, "id=?", id).Error
}
