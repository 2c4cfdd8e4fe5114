package domain

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/dolpin-app/backend/internal/common"
	"github.com/dolpin-app/backend/internal/model"
	"github.com/dolpin-app/backend/internal/repository"
	"github.com/dolpin-app/backend/pkg/pubsub"
	"github.com/dolpin-app/backend/pkg/testutil"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func bookmarkEventPack(t *testing.T, userID, placeID int64, bookmarked bool) *pubsub.Pack {
	b, err := json.Marshal(model.BookmarkEvent{
		UserID:     userID,
		PlaceID:    placeID,
		Bookmarked: bookmarked,
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)

	return &pubsub.Pack{
		Key: []byte(strconv.FormatInt(userID, 10)),
		Msg: b,
	}
}

func Test_BookmarkCacheUpdater_Subscribe(t *testing.T) {
	ctx := testutil.MockContext()
	user := testutil.CreateUser(ctx, "somebody")
	place := testutil.CreatePlace(ctx, "cafe one")
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	redisClient := testutil.NewMockRedisClient()
	updater := NewBookmarkCacheUpdater(repository.NewPlaceRepository(), redisClient)
	placeDomain := NewPlaceDomain(repository.NewPlaceRepository(), &testutil.MockPublisher{})

	// Bookmark the place, then let the consumer see the event.
	_, err := placeDomain.ToggleBookmark(ctx, &model.ToggleBookmarkRequest{PlaceID: place.ID})
	require.NoError(t, err)
	updater.Subscribe(ctx, bookmarkEventPack(t, user.ID, place.ID, true), time.Now())

	member := strconv.FormatInt(place.ID, 10)
	isMember, err := redisClient.SIsMember(ctx, common.RedisKeyUserBookmarks(user.ID), member)
	require.NoError(t, err)
	require.True(t, isMember)

	count, err := redisClient.Get(ctx, common.RedisKeyPlaceBookmarkCount(place.ID))
	require.NoError(t, err)
	require.Equal(t, "1", count)

	// A replayed event converges to the same state instead of double counting.
	updater.Subscribe(ctx, bookmarkEventPack(t, user.ID, place.ID, true), time.Now())

	count, err = redisClient.Get(ctx, common.RedisKeyPlaceBookmarkCount(place.ID))
	require.NoError(t, err)
	require.Equal(t, "1", count)

	// Remove the bookmark and replay the removal event.
	_, err = placeDomain.ToggleBookmark(ctx, &model.ToggleBookmarkRequest{PlaceID: place.ID})
	require.NoError(t, err)
	updater.Subscribe(ctx, bookmarkEventPack(t, user.ID, place.ID, false), time.Now())

	isMember, err = redisClient.SIsMember(ctx, common.RedisKeyUserBookmarks(user.ID), member)
	require.NoError(t, err)
	require.False(t, isMember)

	count, err = redisClient.Get(ctx, common.RedisKeyPlaceBookmarkCount(place.ID))
	require.NoError(t, err)
	require.Equal(t, "0", count)
}

func Test_BookmarkCacheUpdater_Subscribe_BadPayload(t *testing.T) {
	ctx := testutil.MockContext()
	redisClient := testutil.NewMockRedisClient()
	updater := NewBookmarkCacheUpdater(repository.NewPlaceRepository(), redisClient)

	// A malformed event is logged and dropped, never a panic.
	updater.Subscribe(ctx, &pubsub.Pack{Msg: []byte("not json")}, time.Now())
}
