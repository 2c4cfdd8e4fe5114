package domain

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dolpin-app/backend/internal/entity"
	"github.com/dolpin-app/backend/internal/model"
	"github.com/dolpin-app/backend/internal/repository"
	"github.com/dolpin-app/backend/pkg/errorx"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CommentDomain interface {
	CreateComment(context.Context, *model.CreateCommentRequest) (*model.CreateCommentResponse, error)
	GetComments(context.Context, *model.GetCommentsRequest) (*model.GetCommentsResponse, error)
	DeleteComment(context.Context, *model.DeleteCommentRequest) (*model.DeleteCommentResponse, error)
}

type commentDomain struct {
	commentRepo repository.CommentRepository
	momentRepo  repository.MomentRepository
	userRepo    repository.UserRepository
}

func NewCommentDomain(
	commentRepo repository.CommentRepository,
	momentRepo repository.MomentRepository,
	userRepo repository.UserRepository,
) CommentDomain {
	return &commentDomain{
		commentRepo: commentRepo,
		momentRepo:  momentRepo,
		userRepo:    userRepo,
	}
}

func (d *commentDomain) CreateComment(
	ctx context.Context, req *model.CreateCommentRequest,
) (*model.CreateCommentResponse, error) {
	if req.Content == "" {
		return nil, errorx.New(errorx.BadRequest, "Content is required")
	}

	moment, err := d.momentRepo.GetByID(ctx, req.MomentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found moment")
		}

		xcontext.Logger(ctx).Errorf("Cannot get moment: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	if !moment.IsPublic && moment.UserID != userID {
		return nil, errorx.New(errorx.NotFound, "Not found moment")
	}

	parentID := sql.NullInt64{}
	if req.ParentID != 0 {
		parent, err := d.commentRepo.GetByID(ctx, req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found parent comment")
			}

			xcontext.Logger(ctx).Errorf("Cannot get parent comment: %v", err)
			return nil, errorx.Unknown
		}

		if parent.MomentID != moment.ID {
			return nil, errorx.New(errorx.BadRequest, "Parent comment belongs to another moment")
		}

		// Comments nest a single level. A reply to a reply attaches to the
		// root comment instead.
		parentID = sql.NullInt64{Valid: true, Int64: parent.ID}
		if parent.ParentID.Valid {
			parentID.Int64 = parent.ParentID.Int64
		}
	}

	comment := &entity.Comment{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		MomentID:      moment.ID,
		UserID:        userID,
		ParentID:      parentID,
		Content:       req.Content,
	}

	if err := d.commentRepo.Create(ctx, comment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create comment: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateCommentResponse{
		Comment: model.ConvertComment(comment, user),
	}, nil
}

func (d *commentDomain) GetComments(
	ctx context.Context, req *model.GetCommentsRequest,
) (*model.GetCommentsResponse, error) {
	moment, err := d.momentRepo.GetByID(ctx, req.MomentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found moment")
		}

		xcontext.Logger(ctx).Errorf("Cannot get moment: %v", err)
		return nil, errorx.Unknown
	}

	if !moment.IsPublic && moment.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.NotFound, "Not found moment")
	}

	roots, err := d.commentRepo.ListRootsByMomentID(
		ctx, moment.ID, req.Offset, pageLimit(ctx, req.Limit))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list comments: %v", err)
		return nil, errorx.Unknown
	}

	rootIDs := []int64{}
	for i := range roots {
		rootIDs = append(rootIDs, roots[i].ID)
	}

	replies := []entity.Comment{}
	if len(rootIDs) > 0 {
		replies, err = d.commentRepo.ListRepliesByParentIDs(ctx, rootIDs)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot list replies: %v", err)
			return nil, errorx.Unknown
		}
	}

	repliesOf := map[int64][]entity.Comment{}
	for i := range replies {
		parentID := replies[i].ParentID.Int64
		repliesOf[parentID] = append(repliesOf[parentID], replies[i])
	}

	users := map[int64]*entity.User{}
	result := []model.Comment{}
	for i := range roots {
		root := &roots[i]
		rootReplies := repliesOf[root.ID]

		// A removed comment shows up as a placeholder only while it still
		// has visible replies.
		if root.DeletedAt.Valid {
			if len(rootReplies) == 0 {
				continue
			}

			converted := model.ConvertDeletedComment(root)
			for j := range rootReplies {
				user, err := d.userOf(ctx, users, rootReplies[j].UserID)
				if err != nil {
					return nil, err
				}

				converted.Replies = append(converted.Replies,
					model.ConvertComment(&rootReplies[j], user))
			}

			result = append(result, converted)
			continue
		}

		user, err := d.userOf(ctx, users, root.UserID)
		if err != nil {
			return nil, err
		}

		converted := model.ConvertComment(root, user)
		for j := range rootReplies {
			user, err := d.userOf(ctx, users, rootReplies[j].UserID)
			if err != nil {
				return nil, err
			}

			converted.Replies = append(converted.Replies,
				model.ConvertComment(&rootReplies[j], user))
		}

		result = append(result, converted)
	}

	total, err := d.commentRepo.CountByMomentID(ctx, moment.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count comments: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetCommentsResponse{Comments: result, Total: total}, nil
}

// DeleteComment removes a comment. Both the comment author and the moment
// owner can delete it. Deleting an already removed comment is a no-op.
func (d *commentDomain) DeleteComment(
	ctx context.Context, req *model.DeleteCommentRequest,
) (*model.DeleteCommentResponse, error) {
	comment, err := d.commentRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.DeleteCommentResponse{}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get comment: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	if comment.UserID != userID {
		moment, err := d.momentRepo.GetByID(ctx, comment.MomentID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get moment of comment: %v", err)
			return nil, errorx.Unknown
		}

		if moment.UserID != userID {
			return nil, errorx.New(errorx.PermissionDenied,
				"Only the comment author or the moment owner can delete the comment")
		}
	}

	if err := d.commentRepo.DeleteByID(ctx, comment.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete comment: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteCommentResponse{}, nil
}

func (d *commentDomain) userOf(
	ctx context.Context, cache map[int64]*entity.User, userID int64,
) (*entity.User, error) {
	if user, ok := cache[userID]; ok {
		return user, nil
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cache[userID] = nil
			return nil, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	cache[userID] = user
	return user, nil
}
