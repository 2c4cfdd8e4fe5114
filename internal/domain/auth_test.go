package domain

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dolpin-app/backend/internal/entity"
	"github.com/dolpin-app/backend/internal/model"
	"github.com/dolpin-app/backend/internal/repository"
	"github.com/dolpin-app/backend/pkg/authenticator"
	"github.com/dolpin-app/backend/pkg/errorx"
	"github.com/dolpin-app/backend/pkg/testutil"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

func newTestAuthDomain(userInfo authenticator.UserInfo) (AuthDomain, *testutil.MockOAuthService) {
	oauthService := testutil.NewMockOAuthService("kakao")
	oauthService.GetUserInfoFunc = func(
		ctx context.Context, token *oauth2.Token,
	) (authenticator.UserInfo, error) {
		return userInfo, nil
	}

	authDomain := NewAuthDomain(
		repository.NewUserRepository(),
		repository.NewRefreshTokenRepository(),
		[]authenticator.IOAuthService{oauthService},
	)

	return authDomain, oauthService
}

func Test_authDomain_Token_NewUser(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain, _ := newTestAuthDomain(authenticator.UserInfo{
		Provider:   "kakao",
		ProviderID: "9876543",
		Email:      "somebody@example.com",
	})

	resp, err := authDomain.Token(ctx, &model.TokenRequest{
		AuthorizationCode: "code",
		Provider:          "kakao",
	})
	require.NoError(t, err)
	require.True(t, resp.IsNewUser)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.False(t, resp.User.ProfileCompleted)
	require.True(t, strings.HasPrefix(resp.User.Username, "user98"))

	// The login response describes the own account.
	require.Equal(t, "kakao", resp.User.Provider)
	require.False(t, resp.User.IsPrivacyAgreed)
	require.False(t, resp.User.IsLocationAgreed)

	// The refresh token is persisted with the configured expiration.
	var token entity.RefreshToken
	err = xcontext.DB(ctx).Take(&token, "token=?", resp.RefreshToken).Error
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, token.UserID)
	require.Equal(t, entity.TokenStatusActive, token.Status)

	expectedExpiredAt := time.Now().Add(xcontext.Configs(ctx).Auth.RefreshToken.Expiration)
	require.WithinDuration(t, expectedExpiredAt, token.ExpiredAt, time.Minute)

	// The access token carries the user identity.
	var accessToken model.AccessToken
	err = xcontext.TokenEngine(ctx).Verify(resp.AccessToken, &accessToken)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, accessToken.ID)
}

func Test_authDomain_Token_ExistingUser(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain, _ := newTestAuthDomain(authenticator.UserInfo{
		Provider:   "kakao",
		ProviderID: "9876543",
	})

	first, err := authDomain.Token(ctx, &model.TokenRequest{AuthorizationCode: "code"})
	require.NoError(t, err)
	require.True(t, first.IsNewUser)

	// The second login with the same provider identity never creates another
	// user.
	second, err := authDomain.Token(ctx, &model.TokenRequest{AuthorizationCode: "code"})
	require.NoError(t, err)
	require.False(t, second.IsNewUser)
	require.Equal(t, first.User.ID, second.User.ID)

	var count int64
	require.NoError(t, xcontext.DB(ctx).Model(&entity.User{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

// contestedUserRepository simulates a concurrent first login. The lookup
// misses a configured number of times and every insert hits the unique
// provider identity of the already committed user.
type contestedUserRepository struct {
	repository.UserRepository
	misses int
}

func (r *contestedUserRepository) GetByProvider(
	ctx context.Context, provider, providerID string,
) (*entity.User, error) {
	if r.misses > 0 {
		r.misses--
		return nil, gorm.ErrRecordNotFound
	}

	return r.UserRepository.GetByProvider(ctx, provider, providerID)
}

func (r *contestedUserRepository) Create(ctx context.Context, user *entity.User) error {
	return errors.New("UNIQUE constraint failed: users.provider, users.provider_id")
}

func Test_authDomain_Token_ConcurrentFirstLogin(t *testing.T) {
	ctx := testutil.MockContext()

	// The other login committed this user right before our lookup.
	winner := &entity.User{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		Provider:      "kakao",
		ProviderID:    "9876543",
		Username:      "user98",
		IsNewUser:     true,
	}
	require.NoError(t, xcontext.DB(ctx).Create(winner).Error)

	oauthService := testutil.NewMockOAuthService("kakao")
	oauthService.GetUserInfoFunc = func(
		ctx context.Context, token *oauth2.Token,
	) (authenticator.UserInfo, error) {
		return authenticator.UserInfo{Provider: "kakao", ProviderID: "9876543"}, nil
	}

	authDomain := NewAuthDomain(
		&contestedUserRepository{UserRepository: repository.NewUserRepository(), misses: 1},
		repository.NewRefreshTokenRepository(),
		[]authenticator.IOAuthService{oauthService},
	)

	// The login must settle on the committed user instead of failing after
	// burning every username candidate.
	resp, err := authDomain.Token(ctx, &model.TokenRequest{AuthorizationCode: "code"})
	require.NoError(t, err)
	require.Equal(t, winner.ID, resp.User.ID)

	var count int64
	require.NoError(t, xcontext.DB(ctx).Model(&entity.User{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func Test_authDomain_Token_UsernameCollision(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain, _ := newTestAuthDomain(authenticator.UserInfo{
		Provider:   "kakao",
		ProviderID: "9876543",
	})

	// Take the first placeholder candidate, the sign up must fall back to a
	// suffixed one.
	testutil.CreateUser(ctx, "user98")

	resp, err := authDomain.Token(ctx, &model.TokenRequest{AuthorizationCode: "code"})
	require.NoError(t, err)
	require.Equal(t, "user98a", resp.User.Username)
}

func Test_authDomain_Token_ProviderResolution(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain, _ := newTestAuthDomain(authenticator.UserInfo{
		Provider:   "kakao",
		ProviderID: "9876543",
	})

	// The provider name is case-insensitive.
	_, err := authDomain.Token(ctx, &model.TokenRequest{
		AuthorizationCode: "code",
		Provider:          "KaKao",
	})
	require.NoError(t, err)

	// An empty provider falls back to the default.
	_, err = authDomain.Token(ctx, &model.TokenRequest{AuthorizationCode: "code"})
	require.NoError(t, err)

	// Anything else is rejected.
	_, err = authDomain.Token(ctx, &model.TokenRequest{
		AuthorizationCode: "code",
		Provider:          "naver",
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.UnsupportedProvider, errx.Code)
}

func Test_authDomain_Token_ExchangeFailure(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain, oauthService := newTestAuthDomain(authenticator.UserInfo{})
	oauthService.ExchangeCodeFunc = func(
		ctx context.Context, code, redirectURI string,
	) (*oauth2.Token, error) {
		return nil, errorx.New(errorx.Unavailable, "upstream is down")
	}

	_, err := authDomain.Token(ctx, &model.TokenRequest{AuthorizationCode: "bad-code"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.OAuthExchange, errx.Code)
}

func Test_authDomain_Token_ProfileFetchFailure(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain, oauthService := newTestAuthDomain(authenticator.UserInfo{})
	oauthService.GetUserInfoFunc = func(
		ctx context.Context, token *oauth2.Token,
	) (authenticator.UserInfo, error) {
		return authenticator.UserInfo{}, errorx.New(errorx.Unavailable, "upstream is down")
	}

	_, err := authDomain.Token(ctx, &model.TokenRequest{AuthorizationCode: "code"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.OAuthProfileFetch, errx.Code)
}

func Test_authDomain_Refresh(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain, _ := newTestAuthDomain(authenticator.UserInfo{
		Provider:   "kakao",
		ProviderID: "9876543",
	})

	loginResp, err := authDomain.Token(ctx, &model.TokenRequest{AuthorizationCode: "code"})
	require.NoError(t, err)

	refreshResp, err := authDomain.Refresh(ctx, &model.RefreshTokenRequest{
		RefreshToken: loginResp.RefreshToken,
	})
	require.NoError(t, err)
	require.NotEmpty(t, refreshResp.AccessToken)

	var accessToken model.AccessToken
	err = xcontext.TokenEngine(ctx).Verify(refreshResp.AccessToken, &accessToken)
	require.NoError(t, err)
	require.Equal(t, loginResp.User.ID, accessToken.ID)
}

func Test_authDomain_Refresh_UnknownToken(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain, _ := newTestAuthDomain(authenticator.UserInfo{})

	_, err := authDomain.Refresh(ctx, &model.RefreshTokenRequest{
		RefreshToken: "never-issued",
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.TokenNotFound, errx.Code)
}

func Test_authDomain_Refresh_ExpiredToken(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain, _ := newTestAuthDomain(authenticator.UserInfo{
		Provider:   "kakao",
		ProviderID: "9876543",
	})

	loginResp, err := authDomain.Token(ctx, &model.TokenRequest{AuthorizationCode: "code"})
	require.NoError(t, err)

	err = xcontext.DB(ctx).
		Model(&entity.RefreshToken{}).
		Where("token=?", loginResp.RefreshToken).
		Update("expired_at", time.Now().Add(-time.Hour)).Error
	require.NoError(t, err)

	_, err = authDomain.Refresh(ctx, &model.RefreshTokenRequest{
		RefreshToken: loginResp.RefreshToken,
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.TokenExpired, errx.Code)
}

func Test_authDomain_Logout(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain, _ := newTestAuthDomain(authenticator.UserInfo{
		Provider:   "kakao",
		ProviderID: "9876543",
	})

	loginResp, err := authDomain.Token(ctx, &model.TokenRequest{AuthorizationCode: "code"})
	require.NoError(t, err)

	_, err = authDomain.Logout(ctx, &model.LogoutRequest{RefreshToken: loginResp.RefreshToken})
	require.NoError(t, err)

	// A revoked token can no longer refresh.
	_, err = authDomain.Refresh(ctx, &model.RefreshTokenRequest{
		RefreshToken: loginResp.RefreshToken,
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.TokenExpired, errx.Code)

	// Logout is idempotent, both for revoked and unknown tokens.
	_, err = authDomain.Logout(ctx, &model.LogoutRequest{RefreshToken: loginResp.RefreshToken})
	require.NoError(t, err)

	_, err = authDomain.Logout(ctx, &model.LogoutRequest{RefreshToken: "never-issued"})
	require.NoError(t, err)
}

func Test_authDomain_OAuthURL(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain, _ := newTestAuthDomain(authenticator.UserInfo{})

	resp, err := authDomain.OAuthURL(ctx, &model.OAuthURLRequest{Provider: "kakao"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.LoginURL)
	require.NotEmpty(t, resp.State)

	_, err = authDomain.OAuthURL(ctx, &model.OAuthURLRequest{Provider: "naver"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.UnsupportedProvider, errx.Code)
}
