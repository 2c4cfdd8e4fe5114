package testutil

import (
	"context"

	"github.com/dolpin-app/backend/pkg/authenticator"
	"github.com/dolpin-app/backend/pkg/errorx"
	"golang.org/x/oauth2"
)

type MockOAuthService struct {
	Name             string
	AuthURLFunc      func(state, redirectURI string) string
	ExchangeCodeFunc func(ctx context.Context, code, redirectURI string) (*oauth2.Token, error)
	GetUserInfoFunc  func(ctx context.Context, token *oauth2.Token) (authenticator.UserInfo, error)
}

func NewMockOAuthService(name string) *MockOAuthService {
	return &MockOAuthService{Name: name}
}

func (m *MockOAuthService) Service() string {
	return m.Name
}

func (m *MockOAuthService) AuthURL(state, redirectURI string) string {
	if m.AuthURLFunc != nil {
		return m.AuthURLFunc(state, redirectURI)
	}

	return "https://auth.example.com/authorize?state=" + state
}

func (m *MockOAuthService) ExchangeCode(
	ctx context.Context, code, redirectURI string,
) (*oauth2.Token, error) {
	if m.ExchangeCodeFunc != nil {
		return m.ExchangeCodeFunc(ctx, code, redirectURI)
	}

	return &oauth2.Token{AccessToken: "provider-token"}, nil
}

func (m *MockOAuthService) GetUserInfo(
	ctx context.Context, token *oauth2.Token,
) (authenticator.UserInfo, error) {
	if m.GetUserInfoFunc != nil {
		return m.GetUserInfoFunc(ctx, token)
	}

	return authenticator.UserInfo{}, errorx.New(errorx.NotImplemented, "Not implemented")
}
