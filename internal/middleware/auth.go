package middleware

import (
	"context"
	"strings"

	"github.com/dolpin-app/backend/internal/model"
	"github.com/dolpin-app/backend/pkg/errorx"
	"github.com/dolpin-app/backend/pkg/router"
	"github.com/dolpin-app/backend/pkg/xcontext"
)

// AuthVerifier authenticates the request with the access token from either
// the Authorization header or the access token cookie.
type AuthVerifier struct {
	useAccessToken bool
	optional       bool
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

func (v *AuthVerifier) WithAccessToken() *AuthVerifier {
	v.useAccessToken = true
	return v
}

// WithOptional lets unauthenticated requests through. Handlers see a zero
// request user id in that case.
func (v *AuthVerifier) WithOptional() *AuthVerifier {
	v.optional = true
	return v
}

func (v *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if !v.useAccessToken {
			return ctx, nil
		}

		token := v.accessTokenOf(ctx)
		if token == "" {
			if v.optional {
				return ctx, nil
			}

			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		var accessToken model.AccessToken
		if err := xcontext.TokenEngine(ctx).Verify(token, &accessToken); err != nil {
			if v.optional {
				return ctx, nil
			}

			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}

func (v *AuthVerifier) accessTokenOf(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	if authorization := req.Header.Get("Authorization"); authorization != "" {
		if !strings.HasPrefix(authorization, "Bearer ") {
			return ""
		}

		return strings.TrimPrefix(authorization, "Bearer ")
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}
