package main

import (
	"github.com/dolpin-app/backend/internal/common"
	"github.com/dolpin-app/backend/internal/domain"
	"github.com/dolpin-app/backend/pkg/kafka"
	"github.com/urfave/cli/v2"
)

func (s *srv) startConsumer(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()
	s.loadDatabase()
	s.migrateDB()
	s.loadRedisClient()
	s.loadRepos()

	updater := domain.NewBookmarkCacheUpdater(s.placeRepo, s.redisClient)
	s.subscriber = kafka.NewSubscriber(
		"bookmark-cache",
		[]string{s.configs.Kafka.Addr},
		[]string{common.BookmarkChangedTopic},
		updater.Subscribe,
	)

	s.logger.Infof("Bookmark cache consumer started")
	s.subscriber.Subscribe(s.ctx)
	return nil
}
