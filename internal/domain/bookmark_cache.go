package domain

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/dolpin-app/backend/internal/common"
	"github.com/dolpin-app/backend/internal/model"
	"github.com/dolpin-app/backend/internal/repository"
	"github.com/dolpin-app/backend/pkg/pubsub"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"github.com/dolpin-app/backend/pkg/xredis"
)

// BookmarkCacheUpdater consumes bookmark events and mirrors bookmark state
// into redis. Events are delivered at least once, every write below is
// idempotent so replays are harmless.
type BookmarkCacheUpdater struct {
	placeRepo   repository.PlaceRepository
	redisClient xredis.Client
}

func NewBookmarkCacheUpdater(
	placeRepo repository.PlaceRepository,
	redisClient xredis.Client,
) *BookmarkCacheUpdater {
	return &BookmarkCacheUpdater{
		placeRepo:   placeRepo,
		redisClient: redisClient,
	}
}

func (u *BookmarkCacheUpdater) Subscribe(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var event model.BookmarkEvent
	if err := json.Unmarshal(pack.Msg, &event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unmarshal bookmark event: %v", err)
		return
	}

	userKey := common.RedisKeyUserBookmarks(event.UserID)
	member := strconv.FormatInt(event.PlaceID, 10)

	var err error
	if event.Bookmarked {
		err = u.redisClient.SAdd(ctx, userKey, member)
	} else {
		err = u.redisClient.SRem(ctx, userKey, member)
	}

	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update bookmark set of user %d: %v", event.UserID, err)
		return
	}

	// The count is recomputed from the database instead of incremented, so
	// replayed events converge to the right value.
	count, err := u.placeRepo.CountBookmarksByPlaceID(ctx, event.PlaceID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count bookmarks of place %d: %v", event.PlaceID, err)
		return
	}

	err = u.redisClient.Set(ctx,
		common.RedisKeyPlaceBookmarkCount(event.PlaceID), strconv.FormatInt(count, 10), 0)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot cache bookmark count of place %d: %v", event.PlaceID, err)
	}
}
