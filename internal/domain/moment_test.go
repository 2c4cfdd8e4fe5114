package domain

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dolpin-app/backend/internal/common"
	"github.com/dolpin-app/backend/internal/entity"
	"github.com/dolpin-app/backend/internal/model"
	"github.com/dolpin-app/backend/internal/repository"
	"github.com/dolpin-app/backend/pkg/errorx"
	"github.com/dolpin-app/backend/pkg/testutil"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"github.com/dolpin-app/backend/pkg/xredis"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestMomentDomain(redisClient *testutil.MockRedisClient) MomentDomain {
	// A nil pointer must become a nil interface here. A typed nil would pass
	// the cache guard of the domain and the mock would be called on a nil
	// receiver.
	var cache xredis.Client
	if redisClient != nil {
		cache = redisClient
	}

	return NewMomentDomain(
		repository.NewMomentRepository(),
		repository.NewCommentRepository(),
		repository.NewUserRepository(),
		cache,
	)
}

// brokenCounterMomentRepository fails every view counter update with a fixed
// error, everything else hits the real repository.
type brokenCounterMomentRepository struct {
	repository.MomentRepository
	incrementErr error
}

func (r *brokenCounterMomentRepository) IncrementViewCount(
	ctx context.Context, momentID int64,
) error {
	return r.incrementErr
}

func Test_momentDomain_CreateMoment(t *testing.T) {
	ctx := testutil.MockContext()
	user := testutil.CreateUser(ctx, "writer")
	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	momentDomain := newTestMomentDomain(nil)

	resp, err := momentDomain.CreateMoment(ctx, &model.CreateMomentRequest{
		Title:   "first moment",
		Content: "hello",
	})
	require.NoError(t, err)
	require.Equal(t, user.ID, resp.Moment.UserID)
	require.Equal(t, "writer", resp.Moment.Username)

	// A moment is public unless the request says otherwise.
	require.True(t, resp.Moment.IsPublic)

	isPublic := false
	resp, err = momentDomain.CreateMoment(ctx, &model.CreateMomentRequest{
		Title:    "secret moment",
		IsPublic: &isPublic,
	})
	require.NoError(t, err)
	require.False(t, resp.Moment.IsPublic)

	_, err = momentDomain.CreateMoment(ctx, &model.CreateMomentRequest{Content: "no title"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_momentDomain_UpdateMoment(t *testing.T) {
	ctx := testutil.MockContext()
	user := testutil.CreateUser(ctx, "writer")
	moment := testutil.CreateMoment(ctx, user.ID, "old title", true)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	momentDomain := newTestMomentDomain(nil)

	isPublic := false
	resp, err := momentDomain.UpdateMoment(ctx, &model.UpdateMomentRequest{
		ID:       moment.ID,
		Title:    "new title",
		Content:  "new content",
		IsPublic: &isPublic,
	})
	require.NoError(t, err)
	require.Equal(t, "new title", resp.Moment.Title)
	require.False(t, resp.Moment.IsPublic)

	// Flipping the visibility back to public must also stick, even though it
	// is the zero value of the flag.
	isPublic = true
	resp, err = momentDomain.UpdateMoment(ctx, &model.UpdateMomentRequest{
		ID:       moment.ID,
		Title:    "new title",
		IsPublic: &isPublic,
	})
	require.NoError(t, err)
	require.True(t, resp.Moment.IsPublic)
}

func Test_momentDomain_UpdateMoment_NotOwner(t *testing.T) {
	ctx := testutil.MockContext()
	writer := testutil.CreateUser(ctx, "writer")
	stranger := testutil.CreateUser(ctx, "stranger")
	moment := testutil.CreateMoment(ctx, writer.ID, "title", true)
	momentDomain := newTestMomentDomain(nil)

	ctx = xcontext.WithRequestUserID(ctx, stranger.ID)
	_, err := momentDomain.UpdateMoment(ctx, &model.UpdateMomentRequest{
		ID:    moment.ID,
		Title: "hijacked",
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)

	_, err = momentDomain.DeleteMoment(ctx, &model.DeleteMomentRequest{ID: moment.ID})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)
}

func Test_momentDomain_DeleteMoment(t *testing.T) {
	ctx := testutil.MockContext()
	user := testutil.CreateUser(ctx, "writer")
	moment := testutil.CreateMoment(ctx, user.ID, "title", true)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	momentDomain := newTestMomentDomain(nil)

	_, err := momentDomain.DeleteMoment(ctx, &model.DeleteMomentRequest{ID: moment.ID})
	require.NoError(t, err)

	_, err = momentDomain.GetMoment(ctx, &model.GetMomentRequest{ID: moment.ID})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_momentDomain_GetMoment_CountsView(t *testing.T) {
	ctx := testutil.MockContext()
	user := testutil.CreateUser(ctx, "writer")
	moment := testutil.CreateMoment(ctx, user.ID, "title", true)
	redisClient := testutil.NewMockRedisClient()
	momentDomain := newTestMomentDomain(redisClient)

	// Fetching the detail is what counts as a view.
	resp, err := momentDomain.GetMoment(ctx, &model.GetMomentRequest{ID: moment.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Moment.ViewCount)

	resp, err = momentDomain.GetMoment(ctx, &model.GetMomentRequest{ID: moment.ID})
	require.NoError(t, err)
	require.Equal(t, int64(2), resp.Moment.ViewCount)

	// The counter is mirrored to redis.
	cached, err := redisClient.Get(ctx, common.RedisKeyMomentViews(moment.ID))
	require.NoError(t, err)
	require.Equal(t, "2", cached)
}

func Test_momentDomain_GetMoment_Private(t *testing.T) {
	ctx := testutil.MockContext()
	writer := testutil.CreateUser(ctx, "writer")
	stranger := testutil.CreateUser(ctx, "stranger")
	moment := testutil.CreateMoment(ctx, writer.ID, "secret", false)
	momentDomain := newTestMomentDomain(nil)

	// The owner can read the private moment.
	ownerCtx := xcontext.WithRequestUserID(ctx, writer.ID)
	_, err := momentDomain.GetMoment(ownerCtx, &model.GetMomentRequest{ID: moment.ID})
	require.NoError(t, err)

	// Everyone else gets a not found, the moment existence must not leak.
	strangerCtx := xcontext.WithRequestUserID(ctx, stranger.ID)
	_, err = momentDomain.GetMoment(strangerCtx, &model.GetMomentRequest{ID: moment.ID})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)

	_, err = momentDomain.GetMoment(ctx, &model.GetMomentRequest{ID: moment.ID})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_momentDomain_IncrementViewCount_Concurrent(t *testing.T) {
	ctx := testutil.MockContext()
	user := testutil.CreateUser(ctx, "writer")
	moment := testutil.CreateMoment(ctx, user.ID, "title", true)
	momentDomain := newTestMomentDomain(nil)

	// Concurrent views must never lose an increment.
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, momentDomain.IncrementViewCount(ctx, moment.ID))
		}()
	}
	wg.Wait()

	var updated entity.Moment
	require.NoError(t, xcontext.DB(ctx).Take(&updated, "id=?", moment.ID).Error)
	require.Equal(t, int64(100), updated.ViewCount)
}

func Test_momentDomain_IncrementViewCount_RetryExhausted(t *testing.T) {
	ctx := testutil.MockContext()
	user := testutil.CreateUser(ctx, "writer")
	moment := testutil.CreateMoment(ctx, user.ID, "title", true)

	momentDomain := NewMomentDomain(
		&brokenCounterMomentRepository{
			MomentRepository: repository.NewMomentRepository(),
			incrementErr:     errors.New("database is away"),
		},
		repository.NewCommentRepository(),
		repository.NewUserRepository(),
		nil,
	)

	// A persistent store failure surfaces as a counter error after the
	// retries run out.
	err := momentDomain.IncrementViewCount(ctx, moment.ID)
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.CounterUpdateFailed, errx.Code)
}

func Test_momentDomain_IncrementViewCount_DeletedMeanwhile(t *testing.T) {
	ctx := testutil.MockContext()
	user := testutil.CreateUser(ctx, "writer")
	moment := testutil.CreateMoment(ctx, user.ID, "title", true)

	momentDomain := NewMomentDomain(
		&brokenCounterMomentRepository{
			MomentRepository: repository.NewMomentRepository(),
			incrementErr:     gorm.ErrRecordNotFound,
		},
		repository.NewCommentRepository(),
		repository.NewUserRepository(),
		nil,
	)

	// The moment disappearing between the existence check and the update is
	// not an error, the view is simply dropped.
	require.NoError(t, momentDomain.IncrementViewCount(ctx, moment.ID))

	var updated entity.Moment
	require.NoError(t, xcontext.DB(ctx).Take(&updated, "id=?", moment.ID).Error)
	require.Equal(t, int64(0), updated.ViewCount)
}

func Test_momentDomain_IncrementViewCount_NotFound(t *testing.T) {
	ctx := testutil.MockContext()
	momentDomain := newTestMomentDomain(nil)

	err := momentDomain.IncrementViewCount(ctx, 12345)
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_momentDomain_GetMoments(t *testing.T) {
	ctx := testutil.MockContext()
	writer := testutil.CreateUser(ctx, "writer")
	other := testutil.CreateUser(ctx, "other")
	testutil.CreateMoment(ctx, writer.ID, "public one", true)
	testutil.CreateMoment(ctx, writer.ID, "private one", false)
	testutil.CreateMoment(ctx, other.ID, "public two", true)
	momentDomain := newTestMomentDomain(nil)

	// The feed only carries public moments.
	resp, err := momentDomain.GetMoments(ctx, &model.GetMomentsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Moments, 2)

	// The owner listing carries the private ones too.
	myCtx := xcontext.WithRequestUserID(ctx, writer.ID)
	myResp, err := momentDomain.GetMyMoments(myCtx, &model.GetMyMomentsRequest{})
	require.NoError(t, err)
	require.Len(t, myResp.Moments, 2)

	// Another user only sees the public moments of the writer.
	userResp, err := momentDomain.GetUserMoments(ctx, &model.GetUserMomentsRequest{
		UserID: writer.ID,
	})
	require.NoError(t, err)
	require.Len(t, userResp.Moments, 1)
	require.Equal(t, "public one", userResp.Moments[0].Title)
}

func Test_momentDomain_GetPlaceMoments(t *testing.T) {
	ctx := testutil.MockContext()
	user := testutil.CreateUser(ctx, "writer")
	place := testutil.CreatePlace(ctx, "cafe one")
	momentDomain := newTestMomentDomain(nil)

	momentCtx := xcontext.WithRequestUserID(ctx, user.ID)
	_, err := momentDomain.CreateMoment(momentCtx, &model.CreateMomentRequest{
		Title:   "at the cafe",
		PlaceID: place.ID,
	})
	require.NoError(t, err)
	testutil.CreateMoment(ctx, user.ID, "somewhere else", true)

	resp, err := momentDomain.GetPlaceMoments(ctx, &model.GetPlaceMomentsRequest{
		PlaceID: place.ID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Moments, 1)
	require.Equal(t, "at the cafe", resp.Moments[0].Title)
}
