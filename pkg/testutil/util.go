package testutil

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dolpin-app/backend/config"
	"github.com/dolpin-app/backend/internal/entity"
	"github.com/dolpin-app/backend/pkg/authenticator"
	"github.com/dolpin-app/backend/pkg/logger"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"github.com/gorilla/sessions"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// Every connection of an in-memory sqlite sees its own database. Force a
	// single connection so all goroutines share one.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := config.Configs{
		ApiServer: config.ServerConfigs{
			MaxLimit:     50,
			DefaultLimit: 10,
		},
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
			RefreshToken: config.TokenConfigs{
				Name:       "refresh_token",
				Expiration: 14 * 24 * time.Hour,
			},
		},
		Session: config.SessionConfigs{
			Name:   "session",
			Secret: "session-secret",
		},
		Storage: config.S3Configs{
			PresignedURLExpiration: 5 * time.Minute,
		},
		File: config.FileConfigs{
			MaxSize: 10 * 1024 * 1024,
		},
		Popular: config.PopularConfigs{
			DailyLimit:  20,
			WeeklyLimit: 30,
		},
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	ctx = xcontext.WithSessionStore(ctx, sessions.NewCookieStore([]byte(cfg.Session.Secret)))
	ctx = xcontext.WithSnowFlake(ctx, node)
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID int64) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
