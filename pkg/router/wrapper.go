package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dolpin-app/backend/pkg/errorx"
	"github.com/dolpin-app/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx := r.newRequestContext(w, req)
		defer func() {
			for _, closer := range r.closers {
				closer(ctx)
			}
		}()

		for _, before := range r.befores {
			newCtx, err := before(ctx)
			if err != nil {
				xcontext.SetError(ctx, err)
				writeResponse(ctx)
				return
			}

			ctx = newCtx
		}

		var request Request
		var err error
		switch method {
		case http.MethodGet:
			err = bindQuery(req.URL.Query(), &request)
		case http.MethodPost:
			err = json.NewDecoder(req.Body).Decode(&request)
			if errors.Is(err, io.EOF) {
				err = nil
			}
		}

		if err != nil {
			xcontext.SetError(ctx, errorx.New(errorx.BadRequest, "Cannot bind the request"))
			writeResponse(ctx)
			return
		}

		resp, err := handler(ctx, &request)
		if err != nil {
			xcontext.SetError(ctx, err)
		} else {
			xcontext.SetResponse(ctx, resp)
		}

		if err == nil {
			for _, after := range r.afters {
				if err := after(ctx); err != nil {
					xcontext.SetError(ctx, err)
					break
				}
			}
		}

		writeResponse(ctx)
	})
}
