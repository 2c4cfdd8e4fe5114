package main

import (
	"context"

	"github.com/dolpin-app/backend/config"
	"github.com/dolpin-app/backend/internal/domain"
	"github.com/dolpin-app/backend/internal/repository"
	"github.com/dolpin-app/backend/migration"
	"github.com/dolpin-app/backend/pkg/authenticator"
	"github.com/dolpin-app/backend/pkg/kafka"
	"github.com/dolpin-app/backend/pkg/logger"
	"github.com/dolpin-app/backend/pkg/storage"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"github.com/dolpin-app/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func (s *srv) loadConfig(cctx *cli.Context) {
	configs, err := config.Load(cctx.String("config"))
	if err != nil {
		panic(err)
	}

	s.configs = configs
	s.ctx = xcontext.WithConfigs(context.Background(), *configs)
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" || s.configs.Env == "dev" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
}

func (s *srv) loadDatabase() {
	db, err := gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.db = db
	s.ctx = xcontext.WithDB(s.ctx, db)
}

func (s *srv) migrateDB() {
	if err := migration.Migrate(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher() {
	s.publisher = kafka.NewPublisher("dolpin-api", []string{s.configs.Kafka.Addr})
}

func (s *srv) loadStorage() {
	s.storage = storage.NewS3Storage(s.configs.Storage)
}

func (s *srv) loadOAuthServices() {
	googleService, err := authenticator.NewGoogleService(s.ctx, s.configs.Auth.Google)
	if err != nil {
		panic(err)
	}

	s.oauthServices = []authenticator.IOAuthService{
		authenticator.NewKakaoService(s.configs.Auth.Kakao),
		googleService,
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.refreshTokenRepo = repository.NewRefreshTokenRepository()
	s.placeRepo = repository.NewPlaceRepository()
	s.momentRepo = repository.NewMomentRepository()
	s.commentRepo = repository.NewCommentRepository()
}

func (s *srv) loadDomains() {
	s.authDomain = domain.NewAuthDomain(s.userRepo, s.refreshTokenRepo, s.oauthServices)
	s.userDomain = domain.NewUserDomain(s.userRepo, s.refreshTokenRepo)
	s.placeDomain = domain.NewPlaceDomain(s.placeRepo, s.publisher)
	s.momentDomain = domain.NewMomentDomain(s.momentRepo, s.commentRepo, s.userRepo, s.redisClient)
	s.commentDomain = domain.NewCommentDomain(s.commentRepo, s.momentRepo, s.userRepo)
	s.storageDomain = domain.NewStorageDomain(s.storage)
	s.statisticDomain = domain.NewStatisticDomain(
		s.momentRepo, s.commentRepo, s.userRepo, s.redisClient)
}
