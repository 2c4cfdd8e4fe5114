package domain

import (
	"context"
	"errors"

	"github.com/dolpin-app/backend/internal/common"
	"github.com/dolpin-app/backend/internal/entity"
	"github.com/dolpin-app/backend/internal/model"
	"github.com/dolpin-app/backend/internal/repository"
	"github.com/dolpin-app/backend/pkg/enum"
	"github.com/dolpin-app/backend/pkg/errorx"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"github.com/dolpin-app/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
)

type StatisticDomain interface {
	GetPopularMoments(context.Context, *model.GetPopularMomentsRequest) (*model.GetPopularMomentsResponse, error)
}

type statisticDomain struct {
	momentRepo  repository.MomentRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	redisClient xredis.Client
}

func NewStatisticDomain(
	momentRepo repository.MomentRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	redisClient xredis.Client,
) StatisticDomain {
	return &statisticDomain{
		momentRepo:  momentRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		redisClient: redisClient,
	}
}

// GetPopularMoments serves the ranking written by the popular moment cron
// job. An empty list is returned until the job has run for the period.
func (d *statisticDomain) GetPopularMoments(
	ctx context.Context, req *model.GetPopularMomentsRequest,
) (*model.GetPopularMomentsResponse, error) {
	period := entity.PopularPeriodDaily
	if req.Period != "" {
		var err error
		period, err = enum.ToEnum[entity.PopularPeriod](req.Period)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid period %s", req.Period)
		}
	}

	resp := &model.GetPopularMomentsResponse{
		Period:  string(period),
		Moments: []model.Moment{},
	}

	rankingKey, err := d.redisClient.Get(ctx, common.RedisKeyLatestPopularMoments(period))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return resp, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get latest popular pointer: %v", err)
		return nil, errorx.Unknown
	}

	var momentIDs []int64
	if err := d.redisClient.GetObj(ctx, rankingKey, &momentIDs); err != nil {
		if errors.Is(err, redis.Nil) {
			return resp, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get popular moments: %v", err)
		return nil, errorx.Unknown
	}

	if len(momentIDs) == 0 {
		return resp, nil
	}

	moments, err := d.momentRepo.GetByIDs(ctx, momentIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get moments of ranking: %v", err)
		return nil, errorx.Unknown
	}

	// Keep the ranking order, drop ids of moments deleted since the job ran.
	byID := map[int64]*entity.Moment{}
	for i := range moments {
		byID[moments[i].ID] = &moments[i]
	}

	ordered := []entity.Moment{}
	for _, id := range momentIDs {
		if moment, ok := byID[id]; ok {
			ordered = append(ordered, *moment)
		}
	}

	converted, err := convertMomentList(ctx, d.userRepo, d.commentRepo, ordered)
	if err != nil {
		return nil, err
	}

	resp.Moments = converted
	return resp, nil
}
