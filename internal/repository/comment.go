package repository

import (
	"context"

	"github.com/dolpin-app/backend/internal/entity"
	"github.com/dolpin-app/backend/pkg/xcontext"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	GetByID(ctx context.Context, id int64) (*entity.Comment, error)
	DeleteByID(ctx context.Context, id int64) error

	// ListRootsByMomentID also returns soft-deleted roots so the caller can
	// render placeholders for removed comments with live replies.
	ListRootsByMomentID(ctx context.Context, momentID int64, offset, limit int) ([]entity.Comment, error)
	ListRepliesByParentIDs(ctx context.Context, parentIDs []int64) ([]entity.Comment, error)

	CountByMomentID(ctx context.Context, momentID int64) (int64, error)
	CountGroupByMomentID(ctx context.Context, momentIDs []int64) (map[int64]int64, error)
}

type commentRepository struct{}

func NewCommentRepository() *commentRepository {
	return &commentRepository{}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	return xcontext.DB(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*entity.Comment, error) {
	var result entity.Comment
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *commentRepository) DeleteByID(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).Delete(&entity.Comment{}, "id=?", id).Error
}

func (r *commentRepository) ListRootsByMomentID(
	ctx context.Context, momentID int64, offset, limit int,
) ([]entity.Comment, error) {
	var result []entity.Comment
	err := xcontext.DB(ctx).
		Unscoped().
		Where("moment_id=? AND parent_id IS NULL", momentID).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *commentRepository) ListRepliesByParentIDs(
	ctx context.Context, parentIDs []int64,
) ([]entity.Comment, error) {
	var result []entity.Comment
	err := xcontext.DB(ctx).
		Where("parent_id IN (?)", parentIDs).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *commentRepository) CountByMomentID(ctx context.Context, momentID int64) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.Comment{}).
		Where("moment_id=?", momentID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *commentRepository) CountGroupByMomentID(
	ctx context.Context, momentIDs []int64,
) (map[int64]int64, error) {
	var rows []struct {
		MomentID int64
		Total    int64
	}

	err := xcontext.DB(ctx).
		Model(&entity.Comment{}).
		Select("moment_id, count(*) as total").
		Where("moment_id IN (?)", momentIDs).
		Group("moment_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[int64]int64, len(rows))
	for _, row := range rows {
		result[row.MomentID] = row.Total
	}

	return result, nil
}
