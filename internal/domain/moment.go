package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dolpin-app/backend/internal/common"
	"github.com/dolpin-app/backend/internal/entity"
	"github.com/dolpin-app/backend/internal/model"
	"github.com/dolpin-app/backend/internal/repository"
	"github.com/dolpin-app/backend/pkg/errorx"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"github.com/dolpin-app/backend/pkg/xredis"
	"gorm.io/gorm"
)

const (
	viewCountAttempts = 3
	viewCountBackoff  = 100 * time.Millisecond
)

type MomentDomain interface {
	CreateMoment(context.Context, *model.CreateMomentRequest) (*model.CreateMomentResponse, error)
	UpdateMoment(context.Context, *model.UpdateMomentRequest) (*model.UpdateMomentResponse, error)
	DeleteMoment(context.Context, *model.DeleteMomentRequest) (*model.DeleteMomentResponse, error)
	GetMoment(context.Context, *model.GetMomentRequest) (*model.GetMomentResponse, error)
	GetMoments(context.Context, *model.GetMomentsRequest) (*model.GetMomentsResponse, error)
	GetMyMoments(context.Context, *model.GetMyMomentsRequest) (*model.GetMyMomentsResponse, error)
	GetUserMoments(context.Context, *model.GetUserMomentsRequest) (*model.GetUserMomentsResponse, error)
	GetPlaceMoments(context.Context, *model.GetPlaceMomentsRequest) (*model.GetPlaceMomentsResponse, error)

	IncrementViewCount(ctx context.Context, momentID int64) error
}

type momentDomain struct {
	momentRepo  repository.MomentRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	redisClient xredis.Client
}

func NewMomentDomain(
	momentRepo repository.MomentRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	redisClient xredis.Client,
) MomentDomain {
	return &momentDomain{
		momentRepo:  momentRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		redisClient: redisClient,
	}
}

func (d *momentDomain) CreateMoment(
	ctx context.Context, req *model.CreateMomentRequest,
) (*model.CreateMomentResponse, error) {
	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Title is required")
	}

	moment := &entity.Moment{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        xcontext.RequestUserID(ctx),
		PlaceID:       sql.NullInt64{Valid: req.PlaceID != 0, Int64: req.PlaceID},
		PlaceName:     req.PlaceName,
		Title:         req.Title,
		Content:       req.Content,
		Images:        entity.Array[string](req.Images),
		IsPublic:      req.IsPublic == nil || *req.IsPublic,
	}

	if err := d.momentRepo.Create(ctx, moment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create moment: %v", err)
		return nil, errorx.Unknown
	}

	username, err := d.usernameOf(ctx, moment.UserID)
	if err != nil {
		return nil, err
	}

	return &model.CreateMomentResponse{
		Moment: model.ConvertMoment(moment, username, 0),
	}, nil
}

func (d *momentDomain) UpdateMoment(
	ctx context.Context, req *model.UpdateMomentRequest,
) (*model.UpdateMomentResponse, error) {
	moment, err := d.getOwnedMoment(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	data := &entity.Moment{
		PlaceID:   sql.NullInt64{Valid: req.PlaceID != 0, Int64: req.PlaceID},
		PlaceName: req.PlaceName,
		Title:     req.Title,
		Content:   req.Content,
		Images:    entity.Array[string](req.Images),
	}

	if err := d.momentRepo.UpdateByID(ctx, moment.ID, data); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update moment: %v", err)
		return nil, errorx.Unknown
	}

	if req.IsPublic != nil && *req.IsPublic != moment.IsPublic {
		if err := d.momentRepo.SetVisibility(ctx, moment.ID, *req.IsPublic); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot change moment visibility: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	updated, err := d.momentRepo.GetByID(ctx, moment.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get updated moment: %v", err)
		return nil, errorx.Unknown
	}

	username, err := d.usernameOf(ctx, updated.UserID)
	if err != nil {
		return nil, err
	}

	count, err := d.commentRepo.CountByMomentID(ctx, updated.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count comments: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateMomentResponse{
		Moment: model.ConvertMoment(updated, username, count),
	}, nil
}

func (d *momentDomain) DeleteMoment(
	ctx context.Context, req *model.DeleteMomentRequest,
) (*model.DeleteMomentResponse, error) {
	moment, err := d.getOwnedMoment(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if err := d.momentRepo.DeleteByID(ctx, moment.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete moment: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteMomentResponse{}, nil
}

func (d *momentDomain) GetMoment(
	ctx context.Context, req *model.GetMomentRequest,
) (*model.GetMomentResponse, error) {
	moment, err := d.momentRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found moment")
		}

		xcontext.Logger(ctx).Errorf("Cannot get moment: %v", err)
		return nil, errorx.Unknown
	}

	// A private moment is invisible to everyone except the owner.
	if !moment.IsPublic && moment.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.NotFound, "Not found moment")
	}

	// Viewing is the side effect of fetching. The detail response must not
	// fail because the counter could not be bumped.
	if err := d.IncrementViewCount(ctx, moment.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot increase view count of %d: %v", moment.ID, err)
	} else {
		moment.ViewCount++
	}

	username, err := d.usernameOf(ctx, moment.UserID)
	if err != nil {
		return nil, err
	}

	count, err := d.commentRepo.CountByMomentID(ctx, moment.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count comments: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMomentResponse{
		Moment: model.ConvertMoment(moment, username, count),
	}, nil
}

func (d *momentDomain) GetMoments(
	ctx context.Context, req *model.GetMomentsRequest,
) (*model.GetMomentsResponse, error) {
	moments, err := d.momentRepo.ListPublic(ctx, req.Offset, pageLimit(ctx, req.Limit))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list moments: %v", err)
		return nil, errorx.Unknown
	}

	result, err := convertMomentList(ctx, d.userRepo, d.commentRepo, moments)
	if err != nil {
		return nil, err
	}

	return &model.GetMomentsResponse{Moments: result}, nil
}

func (d *momentDomain) GetMyMoments(
	ctx context.Context, req *model.GetMyMomentsRequest,
) (*model.GetMyMomentsResponse, error) {
	moments, err := d.momentRepo.ListByUserID(
		ctx, xcontext.RequestUserID(ctx), false, req.Offset, pageLimit(ctx, req.Limit))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list my moments: %v", err)
		return nil, errorx.Unknown
	}

	result, err := convertMomentList(ctx, d.userRepo, d.commentRepo, moments)
	if err != nil {
		return nil, err
	}

	return &model.GetMyMomentsResponse{Moments: result}, nil
}

func (d *momentDomain) GetUserMoments(
	ctx context.Context, req *model.GetUserMomentsRequest,
) (*model.GetUserMomentsResponse, error) {
	moments, err := d.momentRepo.ListByUserID(
		ctx, req.UserID, true, req.Offset, pageLimit(ctx, req.Limit))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list user moments: %v", err)
		return nil, errorx.Unknown
	}

	result, err := convertMomentList(ctx, d.userRepo, d.commentRepo, moments)
	if err != nil {
		return nil, err
	}

	return &model.GetUserMomentsResponse{Moments: result}, nil
}

func (d *momentDomain) GetPlaceMoments(
	ctx context.Context, req *model.GetPlaceMomentsRequest,
) (*model.GetPlaceMomentsResponse, error) {
	moments, err := d.momentRepo.ListByPlaceID(
		ctx, req.PlaceID, req.Offset, pageLimit(ctx, req.Limit))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list place moments: %v", err)
		return nil, errorx.Unknown
	}

	result, err := convertMomentList(ctx, d.userRepo, d.commentRepo, moments)
	if err != nil {
		return nil, err
	}

	return &model.GetPlaceMomentsResponse{Moments: result}, nil
}

// IncrementViewCount bumps the view counter of a moment. The increment itself
// is a single atomic statement, retried on transient store errors.
func (d *momentDomain) IncrementViewCount(ctx context.Context, momentID int64) error {
	existed, err := d.momentRepo.Exist(ctx, momentID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check moment existence: %v", err)
		return errorx.Unknown
	}

	if !existed {
		return errorx.New(errorx.NotFound, "Not found moment")
	}

	var lastErr error
	for attempt := 0; attempt < viewCountAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(viewCountBackoff)
		}

		err := d.momentRepo.IncrementViewCount(ctx, momentID)
		if err == nil {
			d.cacheViewCount(ctx, momentID)
			return nil
		}

		// The moment was deleted between the existence check and the
		// update. The view event is dropped, not an error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Warnf("View of deleted moment %d is dropped", momentID)
			return nil
		}

		lastErr = err
	}

	xcontext.Logger(ctx).Errorf("Cannot increase view count of %d: %v", momentID, lastErr)
	return errorx.New(errorx.CounterUpdateFailed, "Cannot update the view counter")
}

// cacheViewCount mirrors the counter to redis on a best effort basis.
func (d *momentDomain) cacheViewCount(ctx context.Context, momentID int64) {
	if d.redisClient == nil {
		return
	}

	_, err := d.redisClient.Incr(ctx, common.RedisKeyMomentViews(momentID))
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache view count of %d: %v", momentID, err)
	}
}

func (d *momentDomain) getOwnedMoment(ctx context.Context, id int64) (*entity.Moment, error) {
	moment, err := d.momentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found moment")
		}

		xcontext.Logger(ctx).Errorf("Cannot get moment: %v", err)
		return nil, errorx.Unknown
	}

	if moment.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the owner can modify the moment")
	}

	return moment, nil
}

func (d *momentDomain) usernameOf(ctx context.Context, userID int64) (string, error) {
	return usernameOf(ctx, d.userRepo, userID)
}
