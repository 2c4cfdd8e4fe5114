package cron

import (
	"context"
	"sort"
	"time"

	"github.com/dolpin-app/backend/internal/common"
	"github.com/dolpin-app/backend/internal/entity"
	"github.com/dolpin-app/backend/internal/repository"
	"github.com/dolpin-app/backend/pkg/dateutil"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"github.com/dolpin-app/backend/pkg/xredis"
)

const (
	viewWeight          = 1.0
	dailyCommentWeight  = 3.0
	weeklyCommentWeight = 5.0
	recencyBonus        = 2.0
	recencyWindow       = 24 * time.Hour

	defaultDailyLimit  = 20
	defaultWeeklyLimit = 30
)

// PopularMomentCronJob ranks the public moments of the current period and
// writes the result to redis for StatisticDomain to serve.
type PopularMomentCronJob struct {
	period      entity.PopularPeriod
	momentRepo  repository.MomentRepository
	commentRepo repository.CommentRepository
	redisClient xredis.Client
}

func NewDailyPopularMomentCronJob(
	momentRepo repository.MomentRepository,
	commentRepo repository.CommentRepository,
	redisClient xredis.Client,
) *PopularMomentCronJob {
	return &PopularMomentCronJob{
		period:      entity.PopularPeriodDaily,
		momentRepo:  momentRepo,
		commentRepo: commentRepo,
		redisClient: redisClient,
	}
}

func NewWeeklyPopularMomentCronJob(
	momentRepo repository.MomentRepository,
	commentRepo repository.CommentRepository,
	redisClient xredis.Client,
) *PopularMomentCronJob {
	return &PopularMomentCronJob{
		period:      entity.PopularPeriodWeekly,
		momentRepo:  momentRepo,
		commentRepo: commentRepo,
		redisClient: redisClient,
	}
}

func (job *PopularMomentCronJob) Do(ctx context.Context) {
	now := time.Now()
	moments, err := job.momentRepo.ListPublicCreatedAfter(ctx, job.periodStart(now))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list moments of period: %v", err)
		return
	}

	momentIDs := []int64{}
	for i := range moments {
		momentIDs = append(momentIDs, moments[i].ID)
	}

	commentCounts := map[int64]int64{}
	if len(momentIDs) > 0 {
		commentCounts, err = job.commentRepo.CountGroupByMomentID(ctx, momentIDs)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count comments of period: %v", err)
			return
		}
	}

	type scored struct {
		id    int64
		score float64
	}

	ranking := []scored{}
	for i := range moments {
		score := job.score(&moments[i], commentCounts[moments[i].ID], now)
		if score <= 0 {
			continue
		}

		ranking = append(ranking, scored{id: moments[i].ID, score: score})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].score > ranking[j].score
	})

	if limit := job.limit(ctx); len(ranking) > limit {
		ranking = ranking[:limit]
	}

	topIDs := []int64{}
	for _, r := range ranking {
		topIDs = append(topIDs, r.id)
	}

	rankingKey := common.RedisKeyPopularMoments(job.period, job.dateKey(now))
	rankingTTL, pointerTTL := job.ttl()
	if err := job.redisClient.SetObj(ctx, rankingKey, topIDs, rankingTTL); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write popular moments: %v", err)
		return
	}

	latestKey := common.RedisKeyLatestPopularMoments(job.period)
	if err := job.redisClient.Set(ctx, latestKey, rankingKey, pointerTTL); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update latest popular pointer: %v", err)
		return
	}

	xcontext.Logger(ctx).Infof("Ranked %d %s popular moments", len(topIDs), job.period)
}

func (job *PopularMomentCronJob) RunNow() bool {
	return true
}

func (job *PopularMomentCronJob) Next() time.Time {
	if job.period == entity.PopularPeriodWeekly {
		return dateutil.NextWeek(time.Now())
	}

	return dateutil.NextDay(time.Now())
}

func (job *PopularMomentCronJob) score(
	moment *entity.Moment, commentCount int64, now time.Time,
) float64 {
	commentWeight := dailyCommentWeight
	if job.period == entity.PopularPeriodWeekly {
		commentWeight = weeklyCommentWeight
	}

	score := float64(moment.ViewCount)*viewWeight + float64(commentCount)*commentWeight
	if now.Sub(moment.CreatedAt) < recencyWindow {
		score += recencyBonus
	}

	return score
}

func (job *PopularMomentCronJob) periodStart(now time.Time) time.Time {
	if job.period == entity.PopularPeriodWeekly {
		return dateutil.StartOfWeek(now)
	}

	return dateutil.StartOfDay(now)
}

func (job *PopularMomentCronJob) dateKey(now time.Time) string {
	if job.period == entity.PopularPeriodWeekly {
		return dateutil.WeekKey(now)
	}

	return dateutil.DateKey(now)
}

func (job *PopularMomentCronJob) limit(ctx context.Context) int {
	cfg := xcontext.Configs(ctx).Popular
	if job.period == entity.PopularPeriodWeekly {
		if cfg.WeeklyLimit > 0 {
			return cfg.WeeklyLimit
		}

		return defaultWeeklyLimit
	}

	if cfg.DailyLimit > 0 {
		return cfg.DailyLimit
	}

	return defaultDailyLimit
}

// ttl returns the lifetime of the ranking key and the latest pointer. The
// pointer outlives the ranking slightly so a dangling pointer reads as an
// empty ranking, never a stale one.
func (job *PopularMomentCronJob) ttl() (time.Duration, time.Duration) {
	if job.period == entity.PopularPeriodWeekly {
		return 8 * 24 * time.Hour, 9 * 24 * time.Hour
	}

	return 25 * time.Hour, 26 * time.Hour
}
