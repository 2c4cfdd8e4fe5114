package domain

import (
	"testing"

	"github.com/dolpin-app/backend/internal/domain/cron"
	"github.com/dolpin-app/backend/internal/entity"
	"github.com/dolpin-app/backend/internal/model"
	"github.com/dolpin-app/backend/internal/repository"
	"github.com/dolpin-app/backend/pkg/errorx"
	"github.com/dolpin-app/backend/pkg/testutil"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestStatisticDomain(redisClient *testutil.MockRedisClient) StatisticDomain {
	return NewStatisticDomain(
		repository.NewMomentRepository(),
		repository.NewCommentRepository(),
		repository.NewUserRepository(),
		redisClient,
	)
}

func Test_statisticDomain_GetPopularMoments(t *testing.T) {
	ctx := testutil.MockContext()
	redisClient := testutil.NewMockRedisClient()
	statisticDomain := newTestStatisticDomain(redisClient)

	// Before the cron job has ever run, the ranking is just empty.
	resp, err := statisticDomain.GetPopularMoments(ctx, &model.GetPopularMomentsRequest{})
	require.NoError(t, err)
	require.Equal(t, "daily", resp.Period)
	require.Empty(t, resp.Moments)

	user := testutil.CreateUser(ctx, "writer")
	first := testutil.CreateMoment(ctx, user.ID, "most viewed", true)
	second := testutil.CreateMoment(ctx, user.ID, "most commented", true)
	testutil.CreateMoment(ctx, user.ID, "private star", false)

	err = xcontext.DB(ctx).
		Model(&entity.Moment{}).
		Where("id=?", first.ID).
		Update("view_count", 10).Error
	require.NoError(t, err)

	// Four comments outweigh ten views for the daily ranking.
	testutil.CreateComment(ctx, second.ID, user.ID, "one")
	testutil.CreateComment(ctx, second.ID, user.ID, "two")
	testutil.CreateComment(ctx, second.ID, user.ID, "three")
	testutil.CreateComment(ctx, second.ID, user.ID, "four")

	job := cron.NewDailyPopularMomentCronJob(
		repository.NewMomentRepository(),
		repository.NewCommentRepository(),
		redisClient,
	)
	job.Do(ctx)

	resp, err = statisticDomain.GetPopularMoments(ctx, &model.GetPopularMomentsRequest{
		Period: "daily",
	})
	require.NoError(t, err)
	require.Len(t, resp.Moments, 2)
	require.Equal(t, "most commented", resp.Moments[0].Title)
	require.Equal(t, "most viewed", resp.Moments[1].Title)
	require.Equal(t, int64(4), resp.Moments[0].CommentCount)
}

func Test_statisticDomain_GetPopularMoments_DeletedMoment(t *testing.T) {
	ctx := testutil.MockContext()
	redisClient := testutil.NewMockRedisClient()
	statisticDomain := newTestStatisticDomain(redisClient)

	user := testutil.CreateUser(ctx, "writer")
	kept := testutil.CreateMoment(ctx, user.ID, "kept", true)
	deleted := testutil.CreateMoment(ctx, user.ID, "deleted later", true)

	job := cron.NewDailyPopularMomentCronJob(
		repository.NewMomentRepository(),
		repository.NewCommentRepository(),
		redisClient,
	)
	job.Do(ctx)

	// A moment removed after the ranking was written silently drops out.
	require.NoError(t, xcontext.DB(ctx).Delete(&entity.Moment{}, "id=?", deleted.ID).Error)

	resp, err := statisticDomain.GetPopularMoments(ctx, &model.GetPopularMomentsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Moments, 1)
	require.Equal(t, kept.ID, resp.Moments[0].ID)
}

func Test_statisticDomain_GetPopularMoments_InvalidPeriod(t *testing.T) {
	ctx := testutil.MockContext()
	statisticDomain := newTestStatisticDomain(testutil.NewMockRedisClient())

	_, err := statisticDomain.GetPopularMoments(ctx, &model.GetPopularMomentsRequest{
		Period: "monthly",
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_PopularMomentCronJob_Limit(t *testing.T) {
	ctx := testutil.MockContext()
	redisClient := testutil.NewMockRedisClient()
	statisticDomain := newTestStatisticDomain(redisClient)

	user := testutil.CreateUser(ctx, "writer")
	limit := xcontext.Configs(ctx).Popular.DailyLimit
	for i := 0; i < limit+5; i++ {
		testutil.CreateMoment(ctx, user.ID, "title", true)
	}

	job := cron.NewDailyPopularMomentCronJob(
		repository.NewMomentRepository(),
		repository.NewCommentRepository(),
		redisClient,
	)
	job.Do(ctx)

	resp, err := statisticDomain.GetPopularMoments(ctx, &model.GetPopularMomentsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Moments, limit)
}
