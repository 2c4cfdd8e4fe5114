package middleware

import (
	"context"
	"net/http"

	"github.com/dolpin-app/backend/pkg/router"
	"github.com/dolpin-app/backend/pkg/xcontext"
)

type CookieResponse interface {
	CookieInfo(ctx context.Context) []http.Cookie
}

// HandleSetCookie writes the cookies declared by the response, used for token
// delivery on login, refresh, and logout.
func HandleSetCookie() router.AfterFunc {
	return func(ctx context.Context) error {
		cookieResp, ok := xcontext.GetResponse(ctx).(CookieResponse)
		if !ok {
			return nil
		}

		writer := xcontext.HTTPWriter(ctx)
		if writer == nil {
			return nil
		}

		for _, cookie := range cookieResp.CookieInfo(ctx) {
			cookie := cookie
			http.SetCookie(writer, &cookie)
		}

		return nil
	}
}
