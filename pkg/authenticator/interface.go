package authenticator

import (
	"context"

	"golang.org/x/oauth2"
)

// UserInfo is the normalized profile returned by an OAuth provider after a
// successful authorization.
type UserInfo struct {
	Provider        string
	ProviderID      string
	Email           string
	Nickname        string
	ProfileImageURL string
}

type IOAuthService interface {
	// Service returns the name of provider.
	Service() string

	// AuthURL returns the URL which client redirects user to for authorizing.
	AuthURL(state, redirectURI string) string

	// ExchangeCode exchanges the authorization code for a provider token.
	ExchangeCode(ctx context.Context, code, redirectURI string) (*oauth2.Token, error)

	// GetUserInfo fetches the user profile with the provider token.
	GetUserInfo(ctx context.Context, token *oauth2.Token) (UserInfo, error)
}
