package model

import (
	"context"
	"net/http"

	"github.com/dolpin-app/backend/pkg/xcontext"
)

// AccessToken is the object embedded into the access JWT.
type AccessToken struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// OAuth URL
type OAuthURLRequest struct {
	Provider    string `json:"provider"`
	RedirectURI string `json:"redirect_uri"`
}

type OAuthURLResponse struct {
	LoginURL string `json:"login_url"`
	State    string `json:"-"`
}

func (r OAuthURLResponse) SessionInfo() map[string]any {
	return map[string]any{"state": r.State}
}

// Token issue
type TokenRequest struct {
	AuthorizationCode string `json:"authorization_code"`
	Provider          string `json:"provider"`
	RedirectURI       string `json:"redirect_uri"`
}

type TokenResponse struct {
	User      User  `json:"user"`
	ExpiresIn int64 `json:"expires_in"`
	IsNewUser bool  `json:"is_new_user"`

	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`
}

func (r TokenResponse) CookieInfo(ctx context.Context) []http.Cookie {
	return []http.Cookie{
		accessTokenCookie(ctx, r.AccessToken),
		refreshTokenCookie(ctx, r.RefreshToken),
	}
}

// Token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	ExpiresIn int64 `json:"expires_in"`

	AccessToken string `json:"-"`
}

func (r RefreshTokenResponse) CookieInfo(ctx context.Context) []http.Cookie {
	return []http.Cookie{accessTokenCookie(ctx, r.AccessToken)}
}

// Logout
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutResponse struct{}

func (r LogoutResponse) CookieInfo(ctx context.Context) []http.Cookie {
	cfg := xcontext.Configs(ctx).Auth
	return []http.Cookie{
		expiredCookie(cfg.AccessToken.Name),
		expiredCookie(cfg.RefreshToken.Name),
	}
}

func accessTokenCookie(ctx context.Context, token string) http.Cookie {
	cfg := xcontext.Configs(ctx).Auth
	return http.Cookie{
		Name:     cfg.AccessToken.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.AccessToken.Expiration.Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	}
}

func refreshTokenCookie(ctx context.Context, token string) http.Cookie {
	cfg := xcontext.Configs(ctx).Auth
	return http.Cookie{
		Name:     cfg.RefreshToken.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.RefreshToken.Expiration.Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	}
}

func expiredCookie(name string) http.Cookie {
	return http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	}
}
