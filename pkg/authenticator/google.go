package authenticator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/dolpin-app/backend/config"
	"golang.org/x/oauth2"
)

type googleService struct {
	name      string
	oauth2Cfg oauth2.Config
	verifier  *oidc.IDTokenVerifier
}

func NewGoogleService(ctx context.Context, cfg config.OAuth2Config) (IOAuthService, error) {
	// The provider keeps this context for its key set refreshes, so the
	// discovery and jwks calls must carry a bounded client.
	ctx = oidc.ClientContext(ctx, &http.Client{Timeout: 10 * time.Second})

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("cannot setup %s provider: %w", cfg.Name, err)
	}

	return &googleService{
		name:     cfg.Name,
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth2Cfg: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

func (s *googleService) Service() string {
	return s.name
}

func (s *googleService) AuthURL(state, redirectURI string) string {
	return s.oauth2Cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
}

func (s *googleService) ExchangeCode(
	ctx context.Context, code, redirectURI string,
) (*oauth2.Token, error) {
	token, err := s.oauth2Cfg.Exchange(ctx, code,
		oauth2.SetAuthURLParam("redirect_uri", redirectURI))
	if err != nil {
		return nil, fmt.Errorf("cannot exchange authorization code: %w", err)
	}

	return token, nil
}

func (s *googleService) GetUserInfo(
	ctx context.Context, token *oauth2.Token,
) (UserInfo, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return UserInfo{}, fmt.Errorf("no id_token in token response")
	}

	idToken, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return UserInfo{}, fmt.Errorf("cannot verify id token: %w", err)
	}

	var claims struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return UserInfo{}, err
	}

	return UserInfo{
		Provider:        s.name,
		ProviderID:      idToken.Subject,
		Email:           claims.Email,
		Nickname:        claims.Name,
		ProfileImageURL: claims.Picture,
	}, nil
}
