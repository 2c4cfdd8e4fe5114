package main

import (
	"github.com/dolpin-app/backend/internal/domain/cron"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()
	s.loadDatabase()
	s.migrateDB()
	s.loadRedisClient()
	s.loadRepos()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(
		cron.NewDailyPopularMomentCronJob(s.momentRepo, s.commentRepo, s.redisClient))
	cronJobManager.Register(
		cron.NewWeeklyPopularMomentCronJob(s.momentRepo, s.commentRepo, s.redisClient))

	cronJobManager.Start(s.ctx)
	return nil
}
