package domain

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dolpin-app/backend/internal/entity"
	"github.com/dolpin-app/backend/internal/model"
	"github.com/dolpin-app/backend/internal/repository"
	"github.com/dolpin-app/backend/pkg/authenticator"
	"github.com/dolpin-app/backend/pkg/crypto"
	"github.com/dolpin-app/backend/pkg/errorx"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const maxUsernameAttempts = 30

type AuthDomain interface {
	OAuthURL(context.Context, *model.OAuthURLRequest) (*model.OAuthURLResponse, error)
	Token(context.Context, *model.TokenRequest) (*model.TokenResponse, error)
	Refresh(context.Context, *model.RefreshTokenRequest) (*model.RefreshTokenResponse, error)
	Logout(context.Context, *model.LogoutRequest) (*model.LogoutResponse, error)
}

type authDomain struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	oauthServices    []authenticator.IOAuthService
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	oauthServices []authenticator.IOAuthService,
) AuthDomain {
	return &authDomain{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		oauthServices:    oauthServices,
	}
}

func (d *authDomain) OAuthURL(
	ctx context.Context, req *model.OAuthURLRequest,
) (*model.OAuthURLResponse, error) {
	service, ok := d.getOAuthService(req.Provider)
	if !ok {
		return nil, errorx.New(errorx.UnsupportedProvider, "Unsupported provider %s", req.Provider)
	}

	state, err := crypto.GenerateRandomString()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate oauth state: %v", err)
		return nil, errorx.Unknown
	}

	return &model.OAuthURLResponse{
		LoginURL: service.AuthURL(state, req.RedirectURI),
		State:    state,
	}, nil
}

func (d *authDomain) Token(
	ctx context.Context, req *model.TokenRequest,
) (*model.TokenResponse, error) {
	service, ok := d.getOAuthService(req.Provider)
	if !ok {
		return nil, errorx.New(errorx.UnsupportedProvider, "Unsupported provider %s", req.Provider)
	}

	// The provider round trips run on the request scoped http client, so they
	// are bounded by its timeout.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, xcontext.HTTPClient(ctx))

	providerToken, err := service.ExchangeCode(ctx, req.AuthorizationCode, req.RedirectURI)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot exchange authorization code: %v", err)
		return nil, errorx.New(errorx.OAuthExchange, "Cannot exchange the authorization code")
	}

	userInfo, err := service.GetUserInfo(ctx, providerToken)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user info from %s: %v", service.Service(), err)
		return nil, errorx.New(errorx.OAuthProfileFetch, "Cannot get the user profile")
	}

	user, isNewUser, err := d.upsertUser(ctx, userInfo)
	if err != nil {
		return nil, err
	}

	refreshToken, err := d.generateRefreshToken(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate refresh token: %v", err)
		return nil, errorx.Unknown
	}

	accessToken, err := d.generateAccessToken(ctx, user)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.TokenResponse{
		User:         model.ConvertUser(user, true),
		ExpiresIn:    int64(xcontext.Configs(ctx).Auth.AccessToken.Expiration.Seconds()),
		IsNewUser:    isNewUser,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (d *authDomain) Refresh(
	ctx context.Context, req *model.RefreshTokenRequest,
) (*model.RefreshTokenResponse, error) {
	refreshToken := d.refreshTokenOf(ctx, req.RefreshToken)
	if refreshToken == "" {
		return nil, errorx.New(errorx.TokenNotFound, "Refresh token is required")
	}

	storageToken, err := d.refreshTokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.TokenNotFound, "Unknown refresh token")
		}

		xcontext.Logger(ctx).Errorf("Cannot get refresh token: %v", err)
		return nil, errorx.Unknown
	}

	if !storageToken.Usable(time.Now()) {
		return nil, errorx.New(errorx.TokenExpired, "Your refresh token is expired")
	}

	user, err := d.userRepo.GetByID(ctx, storageToken.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user of refresh token: %v", err)
		return nil, errorx.Unknown
	}

	accessToken, err := d.generateAccessToken(ctx, user)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RefreshTokenResponse{
		ExpiresIn:   int64(xcontext.Configs(ctx).Auth.AccessToken.Expiration.Seconds()),
		AccessToken: accessToken,
	}, nil
}

// Logout revokes the refresh token. It never fails on an unknown or already
// revoked token, so clients can always clear their cookies.
func (d *authDomain) Logout(
	ctx context.Context, req *model.LogoutRequest,
) (*model.LogoutResponse, error) {
	refreshToken := d.refreshTokenOf(ctx, req.RefreshToken)
	if refreshToken == "" {
		return &model.LogoutResponse{}, nil
	}

	if err := d.refreshTokenRepo.Revoke(ctx, refreshToken); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot revoke refresh token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LogoutResponse{}, nil
}

func (d *authDomain) getOAuthService(provider string) (authenticator.IOAuthService, bool) {
	if provider == "" {
		provider = entity.ProviderKakao
	}

	provider = strings.ToLower(provider)
	for i := range d.oauthServices {
		if d.oauthServices[i].Service() == provider {
			return d.oauthServices[i], true
		}
	}

	return nil, false
}

func (d *authDomain) upsertUser(
	ctx context.Context, userInfo authenticator.UserInfo,
) (*entity.User, bool, error) {
	user, err := d.userRepo.GetByProvider(ctx, userInfo.Provider, userInfo.ProviderID)
	if err == nil {
		return user, false, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user by provider: %v", err)
		return nil, false, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	user, err = d.createUser(ctx, userInfo)
	if err != nil {
		return nil, false, err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return user, true, nil
}

func (d *authDomain) createUser(
	ctx context.Context, userInfo authenticator.UserInfo,
) (*entity.User, error) {
	base := entity.PlaceholderUsernamePrefix
	if len(userInfo.ProviderID) >= 2 {
		base += userInfo.ProviderID[:2]
	} else {
		base += userInfo.ProviderID
	}

	for i := 0; i < maxUsernameAttempts; i++ {
		user := &entity.User{
			SnowFlakeBase:   entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
			Provider:        userInfo.Provider,
			ProviderID:      userInfo.ProviderID,
			Username:        base + usernameSuffix(i),
			Email:           sql.NullString{Valid: userInfo.Email != "", String: userInfo.Email},
			ProfileImageURL: sql.NullString{Valid: userInfo.ProfileImageURL != "", String: userInfo.ProfileImageURL},
			IsNewUser:       true,
		}

		_, err := d.userRepo.GetByUsername(ctx, user.Username)
		if err == nil {
			continue
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot check username candidate: %v", err)
			return nil, errorx.Unknown
		}

		if err := d.userRepo.Create(ctx, user); err != nil {
			// A concurrent first login may have inserted the same provider
			// identity. In that case the winner is our user, retrying the
			// candidates would only burn them all.
			existing, getErr := d.userRepo.GetByProvider(ctx, userInfo.Provider, userInfo.ProviderID)
			if getErr == nil {
				return existing, nil
			}

			if !errors.Is(getErr, gorm.ErrRecordNotFound) {
				xcontext.Logger(ctx).Errorf("Cannot recheck the provider identity: %v", getErr)
				return nil, errorx.Unknown
			}

			// The candidate was taken by a concurrent sign up.
			xcontext.Logger(ctx).Debugf("Cannot create user with username %s: %v", user.Username, err)
			continue
		}

		return user, nil
	}

	xcontext.Logger(ctx).Errorf("Run out of username candidates for base %s", base)
	return nil, errorx.Unknown
}

// usernameSuffix converts the attempt number to an empty string for the first
// attempt, then a, b, ..., z, aa, ab, and so on.
func usernameSuffix(i int) string {
	if i == 0 {
		return ""
	}

	var suffix []byte
	for i > 0 {
		i--
		suffix = append([]byte{byte('a' + i%26)}, suffix...)
		i /= 26
	}

	return string(suffix)
}

func (d *authDomain) generateRefreshToken(ctx context.Context, userID int64) (string, error) {
	refreshToken, err := crypto.GenerateRandomString()
	if err != nil {
		return "", err
	}

	err = d.refreshTokenRepo.Create(ctx, &entity.RefreshToken{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        userID,
		Token:         refreshToken,
		Status:        entity.TokenStatusActive,
		ExpiredAt:     time.Now().Add(xcontext.Configs(ctx).Auth.RefreshToken.Expiration),
	})
	if err != nil {
		return "", err
	}

	return refreshToken, nil
}

func (d *authDomain) generateAccessToken(ctx context.Context, user *entity.User) (string, error) {
	return xcontext.TokenEngine(ctx).Generate(
		xcontext.Configs(ctx).Auth.AccessToken.Expiration,
		model.AccessToken{
			ID:       user.ID,
			Username: user.Username,
		})
}

// refreshTokenOf returns the refresh token from the request body if any,
// otherwise falls back to the cookie.
func (d *authDomain) refreshTokenOf(ctx context.Context, bodyToken string) string {
	if bodyToken != "" {
		return bodyToken
	}

	httpReq := xcontext.HTTPRequest(ctx)
	if httpReq == nil {
		return ""
	}

	cookie, err := httpReq.Cookie(xcontext.Configs(ctx).Auth.RefreshToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}
