package authenticator

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dolpin-app/backend/config"
	"github.com/dolpin-app/backend/pkg/api"
	"golang.org/x/oauth2"
)

const kakaoUserMePath = "/v2/user/me"

type kakaoService struct {
	name        string
	oauth2Cfg   oauth2.Config
	apiEndpoint api.Generator
}

func NewKakaoService(cfg config.OAuth2Config) IOAuthService {
	return &kakaoService{
		name: cfg.Name,
		oauth2Cfg: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		apiEndpoint: api.NewGenerator(cfg.ApiDomain),
	}
}

func (s *kakaoService) Service() string {
	return s.name
}

func (s *kakaoService) AuthURL(state, redirectURI string) string {
	return s.oauth2Cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
}

func (s *kakaoService) ExchangeCode(
	ctx context.Context, code, redirectURI string,
) (*oauth2.Token, error) {
	token, err := s.oauth2Cfg.Exchange(ctx, code,
		oauth2.SetAuthURLParam("redirect_uri", redirectURI))
	if err != nil {
		return nil, fmt.Errorf("cannot exchange authorization code: %w", err)
	}

	return token, nil
}

func (s *kakaoService) GetUserInfo(
	ctx context.Context, token *oauth2.Token,
) (UserInfo, error) {
	resp, err := s.apiEndpoint.New(kakaoUserMePath).
		GET(ctx, api.OAuth2("Bearer", token.AccessToken))
	if err != nil {
		return UserInfo{}, err
	}

	if resp.Code != 200 {
		return UserInfo{}, fmt.Errorf("got status code %d when getting user info", resp.Code)
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return UserInfo{}, fmt.Errorf("invalid user info response")
	}

	id, err := body.GetInt64("id")
	if err != nil {
		return UserInfo{}, err
	}

	// Email and profile fields are optional depending on the user consent.
	email, _ := body.GetString("kakao_account.email")
	nickname, _ := body.GetString("kakao_account.profile.nickname")
	profileImageURL, _ := body.GetString("kakao_account.profile.profile_image_url")

	return UserInfo{
		Provider:        s.name,
		ProviderID:      strconv.FormatInt(id, 10),
		Email:           email,
		Nickname:        nickname,
		ProfileImageURL: profileImageURL,
	}, nil
}
