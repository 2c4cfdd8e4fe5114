package main

import (
	"context"
	"net/http"

	"github.com/dolpin-app/backend/config"
	"github.com/dolpin-app/backend/internal/domain"
	"github.com/dolpin-app/backend/internal/repository"
	"github.com/dolpin-app/backend/pkg/authenticator"
	"github.com/dolpin-app/backend/pkg/logger"
	"github.com/dolpin-app/backend/pkg/pubsub"
	"github.com/dolpin-app/backend/pkg/router"
	"github.com/dolpin-app/backend/pkg/storage"
	"github.com/dolpin-app/backend/pkg/xredis"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context

	configs *config.Configs
	logger  logger.Logger
	db      *gorm.DB

	redisClient xredis.Client
	publisher   pubsub.Publisher
	subscriber  pubsub.Subscriber
	storage     storage.Storage

	oauthServices []authenticator.IOAuthService

	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	placeRepo        repository.PlaceRepository
	momentRepo       repository.MomentRepository
	commentRepo      repository.CommentRepository

	authDomain      domain.AuthDomain
	userDomain      domain.UserDomain
	placeDomain     domain.PlaceDomain
	momentDomain    domain.MomentDomain
	commentDomain   domain.CommentDomain
	storageDomain   domain.StorageDomain
	statisticDomain domain.StatisticDomain

	router *router.Router
	server *http.Server
}
