package domain

import (
	"context"
	"errors"

	"github.com/dolpin-app/backend/internal/entity"
	"github.com/dolpin-app/backend/internal/model"
	"github.com/dolpin-app/backend/internal/repository"
	"github.com/dolpin-app/backend/pkg/errorx"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// pageLimit clamps a client provided page size to the server limits.
func pageLimit(ctx context.Context, limit int) int {
	cfg := xcontext.Configs(ctx).ApiServer
	if limit <= 0 {
		return cfg.DefaultLimit
	}

	if limit > cfg.MaxLimit {
		return cfg.MaxLimit
	}

	return limit
}

// usernameOf tolerates a deleted author, the moment or comment then renders
// with an empty username.
func usernameOf(
	ctx context.Context, userRepo repository.UserRepository, userID int64,
) (string, error) {
	user, err := userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return "", errorx.Unknown
	}

	return user.Username, nil
}

func convertMomentList(
	ctx context.Context,
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
	moments []entity.Moment,
) ([]model.Moment, error) {
	momentIDs := []int64{}
	for i := range moments {
		momentIDs = append(momentIDs, moments[i].ID)
	}

	counts := map[int64]int64{}
	if len(momentIDs) > 0 {
		var err error
		counts, err = commentRepo.CountGroupByMomentID(ctx, momentIDs)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count comments: %v", err)
			return nil, errorx.Unknown
		}
	}

	usernames := map[int64]string{}
	result := []model.Moment{}
	for i := range moments {
		username, ok := usernames[moments[i].UserID]
		if !ok {
			var err error
			username, err = usernameOf(ctx, userRepo, moments[i].UserID)
			if err != nil {
				return nil, err
			}

			usernames[moments[i].UserID] = username
		}

		result = append(result,
			model.ConvertMoment(&moments[i], username, counts[moments[i].ID]))
	}

	return result, nil
}
