package middleware

import (
	"context"
	"errors"

	"github.com/dolpin-app/backend/pkg/router"
	"github.com/dolpin-app/backend/pkg/xcontext"
)

type SessionResponse interface {
	SessionInfo() map[string]any
}

func HandleSaveSession() router.AfterFunc {
	return func(ctx context.Context) error {
		sessionResp, ok := xcontext.GetResponse(ctx).(SessionResponse)
		if !ok {
			return nil
		}

		sessionInfo := sessionResp.SessionInfo()
		if sessionInfo == nil {
			return errors.New("no session info")
		}

		req := xcontext.HTTPRequest(ctx)
		writer := xcontext.HTTPWriter(ctx)
		if req == nil || writer == nil {
			return nil
		}

		session, err := xcontext.SessionStore(ctx).Get(req, xcontext.Configs(ctx).Session.Name)
		if err != nil {
			return err
		}

		for k, v := range sessionInfo {
			session.Values[k] = v
		}

		return session.Save(req, writer)
	}
}
