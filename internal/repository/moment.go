package repository

import (
	"context"
	"time"

	"github.com/dolpin-app/backend/internal/entity"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type MomentRepository interface {
	Create(ctx context.Context, moment *entity.Moment) error
	GetByID(ctx context.Context, id int64) (*entity.Moment, error)
	GetByIDs(ctx context.Context, ids []int64) ([]entity.Moment, error)
	UpdateByID(ctx context.Context, id int64, data *entity.Moment) error
	SetVisibility(ctx context.Context, id int64, isPublic bool) error
	DeleteByID(ctx context.Context, id int64) error

	Exist(ctx context.Context, id int64) (bool, error)
	IncrementViewCount(ctx context.Context, id int64) error

	ListPublic(ctx context.Context, offset, limit int) ([]entity.Moment, error)
	ListByUserID(ctx context.Context, userID int64, publicOnly bool, offset, limit int) ([]entity.Moment, error)
	ListByPlaceID(ctx context.Context, placeID int64, offset, limit int) ([]entity.Moment, error)
	ListPublicCreatedAfter(ctx context.Context, after time.Time) ([]entity.Moment, error)
}

type momentRepository struct{}

func NewMomentRepository() *momentRepository {
	return &momentRepository{}
}

func (r *momentRepository) Create(ctx context.Context, moment *entity.Moment) error {
	return xcontext.DB(ctx).Create(moment).Error
}

func (r *momentRepository) GetByID(ctx context.Context, id int64) (*entity.Moment, error) {
	var result entity.Moment
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *momentRepository) GetByIDs(ctx context.Context, ids []int64) ([]entity.Moment, error) {
	var result []entity.Moment
	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *momentRepository) UpdateByID(ctx context.Context, id int64, data *entity.Moment) error {
	return xcontext.DB(ctx).
		Model(&entity.Moment{}).
		Where("id=?", id).
		Updates(data).Error
}

// SetVisibility needs an explicit update because Updates with a struct skips
// the false value.
func (r *momentRepository) SetVisibility(ctx context.Context, id int64, isPublic bool) error {
	return xcontext.DB(ctx).
		Model(&entity.Moment{}).
		Where("id=?", id).
		Update("is_public", isPublic).Error
}

func (r *momentRepository) DeleteByID(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).Delete(&entity.Moment{}, "id=?", id).Error
}

// Exist checks the moment by an id-only query, it does not load the record.
func (r *momentRepository) Exist(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.Moment{}).
		Where("id=?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// IncrementViewCount bumps the counter with a single atomic statement, no
// read-modify-write.
func (r *momentRepository) IncrementViewCount(ctx context.Context, id int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Moment{}).
		Where("id=?", id).
		Update("view_count", gorm.Expr("view_count+1"))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *momentRepository) ListPublic(
	ctx context.Context, offset, limit int,
) ([]entity.Moment, error) {
	var result []entity.Moment
	err := xcontext.DB(ctx).
		Where("is_public=?", true).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *momentRepository) ListByUserID(
	ctx context.Context, userID int64, publicOnly bool, offset, limit int,
) ([]entity.Moment, error) {
	db := xcontext.DB(ctx).Where("user_id=?", userID)
	if publicOnly {
		db = db.Where("is_public=?", true)
	}

	var result []entity.Moment
	err := db.
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *momentRepository) ListByPlaceID(
	ctx context.Context, placeID int64, offset, limit int,
) ([]entity.Moment, error) {
	var result []entity.Moment
	err := xcontext.DB(ctx).
		Where("place_id=? AND is_public=?", placeID, true).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *momentRepository) ListPublicCreatedAfter(
	ctx context.Context, after time.Time,
) ([]entity.Moment, error) {
	var result []entity.Moment
	err := xcontext.DB(ctx).
		Where("is_public=? AND created_at>=?", true, after).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
