package repository

import (
	"context"

	"github.com/dolpin-app/backend/internal/entity"
	"github.com/dolpin-app/backend/pkg/xcontext"
)

type PlaceRepository interface {
	Create(ctx context.Context, place *entity.Place) error
	GetByID(ctx context.Context, id int64) (*entity.Place, error)
	Search(ctx context.Context, query string, offset, limit int) ([]entity.Place, error)

	CreateBookmark(ctx context.Context, bookmark *entity.PlaceBookmark) error
	DeleteBookmark(ctx context.Context, userID, placeID int64) error
	GetBookmark(ctx context.Context, userID, placeID int64) (*entity.PlaceBookmark, error)
	ListBookmarksByUserID(ctx context.Context, userID int64, offset, limit int) ([]entity.PlaceBookmark, error)
	ListBookmarkedPlaceIDs(ctx context.Context, userID int64) ([]int64, error)
	CountBookmarksByPlaceID(ctx context.Context, placeID int64) (int64, error)
}

type placeRepository struct{}

func NewPlaceRepository() *placeRepository {
	return &placeRepository{}
}

func (r *placeRepository) Create(ctx context.Context, place *entity.Place) error {
	return xcontext.DB(ctx).Create(place).Error
}

func (r *placeRepository) GetByID(ctx context.Context, id int64) (*entity.Place, error) {
	var result entity.Place
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *placeRepository) Search(
	ctx context.Context, query string, offset, limit int,
) ([]entity.Place, error) {
	var result []entity.Place
	pattern := "%" + query + "%"
	err := xcontext.DB(ctx).
		Where("name LIKE ? OR category LIKE ?", pattern, pattern).
		Order("name ASC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *placeRepository) CreateBookmark(ctx context.Context, bookmark *entity.PlaceBookmark) error {
	return xcontext.DB(ctx).Create(bookmark).Error
}

func (r *placeRepository) DeleteBookmark(ctx context.Context, userID, placeID int64) error {
	return xcontext.DB(ctx).
		Delete(&entity.PlaceBookmark{}, "user_id=? AND place_id=?", userID, placeID).Error
}

func (r *placeRepository) GetBookmark(
	ctx context.Context, userID, placeID int64,
) (*entity.PlaceBookmark, error) {
	var result entity.PlaceBookmark
	err := xcontext.DB(ctx).
		Take(&result, "user_id=? AND place_id=?", userID, placeID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *placeRepository) ListBookmarksByUserID(
	ctx context.Context, userID int64, offset, limit int,
) ([]entity.PlaceBookmark, error) {
	var result []entity.PlaceBookmark
	err := xcontext.DB(ctx).
		Preload("Place").
		Where("user_id=?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *placeRepository) ListBookmarkedPlaceIDs(
	ctx context.Context, userID int64,
) ([]int64, error) {
	var result []int64
	err := xcontext.DB(ctx).
		Model(&entity.PlaceBookmark{}).
		Where("user_id=?", userID).
		Pluck("place_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *placeRepository) CountBookmarksByPlaceID(
	ctx context.Context, placeID int64,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.PlaceBookmark{}).
		Where("place_id=?", placeID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
