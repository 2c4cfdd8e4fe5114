package main

import (
	"fmt"
	"net/http"

	"github.com/dolpin-app/backend/internal/middleware"
	"github.com/dolpin-app/backend/pkg/router"
	"github.com/rs/cors"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()
	s.loadDatabase()
	s.migrateDB()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadStorage()
	s.loadOAuthServices()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	c := cors.New(cors.Options{
		AllowedOrigins:   s.configs.ApiServer.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", s.configs.ApiServer.Host, s.configs.ApiServer.Port),
		Handler: c.Handler(s.router.Handler()),
	}

	s.logger.Infof("Starting api server on port %s", s.configs.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.AddCloser(middleware.Logger())

	// Auth API. The oauth url response stores the state into session, token
	// responses deliver cookies.
	authRouter := s.router.Branch()
	authRouter.After(middleware.HandleSaveSession())
	authRouter.After(middleware.HandleSetCookie())
	{
		router.GET(authRouter, "/api/v1/auth/oauth", s.authDomain.OAuthURL)
		router.POST(authRouter, "/api/v1/auth/tokens", s.authDomain.Token)
		router.POST(authRouter, "/api/v1/auth/token/refresh", s.authDomain.Refresh)
		router.POST(authRouter, "/api/v1/auth/logout", s.authDomain.Logout)
	}

	// These following APIs need authentication with Access Token.
	authVerifier := middleware.NewAuthVerifier().WithAccessToken()
	tokenRouter := s.router.Branch()
	tokenRouter.Before(authVerifier.Middleware())
	{
		// User API
		router.GET(tokenRouter, "/api/v1/users/me", s.userDomain.GetMe)
		router.POST(tokenRouter, "/api/v1/users/profile", s.userDomain.UpdateProfile)
		router.POST(tokenRouter, "/api/v1/users/agreement", s.userDomain.Agree)
		router.POST(tokenRouter, "/api/v1/users/delete", s.userDomain.DeleteUser)

		// Place API
		router.POST(tokenRouter, "/api/v1/places/bookmark", s.placeDomain.ToggleBookmark)
		router.GET(tokenRouter, "/api/v1/places/bookmarks", s.placeDomain.ListBookmarks)

		// Moment API
		router.POST(tokenRouter, "/api/v1/moments", s.momentDomain.CreateMoment)
		router.POST(tokenRouter, "/api/v1/moments/update", s.momentDomain.UpdateMoment)
		router.POST(tokenRouter, "/api/v1/moments/delete", s.momentDomain.DeleteMoment)
		router.GET(tokenRouter, "/api/v1/moments/me", s.momentDomain.GetMyMoments)

		// Comment API
		router.POST(tokenRouter, "/api/v1/comments", s.commentDomain.CreateComment)
		router.POST(tokenRouter, "/api/v1/comments/delete", s.commentDomain.DeleteComment)

		// Storage API
		router.POST(tokenRouter, "/api/v1/storage/presigned-url", s.storageDomain.GeneratePresignedURL)
	}

	// Public APIs, personalized when the client sends a valid token.
	optionalVerifier := middleware.NewAuthVerifier().WithAccessToken().WithOptional()
	publicRouter := s.router.Branch()
	publicRouter.Before(optionalVerifier.Middleware())
	{
		router.GET(publicRouter, "/api/v1/users/detail", s.userDomain.GetUser)
		router.GET(publicRouter, "/api/v1/places/search", s.placeDomain.SearchPlaces)
		router.GET(publicRouter, "/api/v1/places/detail", s.placeDomain.GetPlace)
		router.GET(publicRouter, "/api/v1/moments", s.momentDomain.GetMoments)
		router.GET(publicRouter, "/api/v1/moments/detail", s.momentDomain.GetMoment)
		router.GET(publicRouter, "/api/v1/moments/by-user", s.momentDomain.GetUserMoments)
		router.GET(publicRouter, "/api/v1/moments/by-place", s.momentDomain.GetPlaceMoments)
		router.GET(publicRouter, "/api/v1/comments", s.commentDomain.GetComments)
		router.GET(publicRouter, "/api/v1/moments/popular", s.statisticDomain.GetPopularMoments)
	}
}
