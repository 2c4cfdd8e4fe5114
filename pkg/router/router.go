package router

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dolpin-app/backend/config"
	"github.com/dolpin-app/backend/pkg/authenticator"
	"github.com/dolpin-app/backend/pkg/logger"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"github.com/gorilla/sessions"
	"gorm.io/gorm"
)

// outboundTimeout bounds every http call a handler makes to an external
// service through the request scoped client.
const outboundTimeout = 10 * time.Second

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It can derive a new context which
// is passed to the next middleware and the handler.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// AfterFunc runs after the handler with the response already set into the
// context. Its error replaces the handler response if any.
type AfterFunc func(ctx context.Context) error

// CloserFunc always runs at the end of request, after the response is
// written.
type CloserFunc func(ctx context.Context)

// routeTable dispatches a pattern to its method specific handler, so GET and
// POST can share one pattern on the underlying mux.
type routeTable struct {
	handlers map[string]map[string]http.Handler
}

func (t *routeTable) dispatch(pattern string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		handler, ok := t.handlers[pattern][req.Method]
		if !ok {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		handler.ServeHTTP(w, req)
	})
}

type Router struct {
	mux    *http.ServeMux
	routes *routeTable

	cfg         config.Configs
	logger      logger.Logger
	db          *gorm.DB
	tokenEngine authenticator.TokenEngine
	sessions    sessions.Store
	snowflake   *snowflake.Node
	httpClient  *http.Client

	befores []MiddlewareFunc
	afters  []AfterFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	return &Router{
		mux:         http.NewServeMux(),
		routes:      &routeTable{handlers: make(map[string]map[string]http.Handler)},
		cfg:         cfg,
		logger:      logger,
		db:          db,
		tokenEngine: authenticator.NewTokenEngine(cfg.Auth.TokenSecret),
		sessions:    sessions.NewCookieStore([]byte(cfg.Session.Secret)),
		snowflake:   node,
		httpClient:  &http.Client{Timeout: outboundTimeout},
	}
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.handle(http.MethodGet, pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.handle(http.MethodPost, pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) handle(method, pattern string, handler http.Handler) {
	if _, ok := r.routes.handlers[pattern]; !ok {
		r.routes.handlers[pattern] = make(map[string]http.Handler)
		r.mux.Handle(pattern, r.routes.dispatch(pattern))
	}

	r.routes.handlers[pattern][method] = handler
}

// Branch creates a new Router sharing the same mux but with an independent
// middleware chain.
func (r *Router) Branch() *Router {
	clone := *r
	clone.befores = append([]MiddlewareFunc{}, r.befores...)
	clone.afters = append([]AfterFunc{}, r.afters...)
	clone.closers = append([]CloserFunc{}, r.closers...)
	return &clone
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(after AfterFunc) {
	r.afters = append(r.afters, after)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Static(pattern, root string) {
	r.mux.Handle(pattern, http.FileServer(http.Dir(root)))
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func (r *Router) newRequestContext(w http.ResponseWriter, req *http.Request) context.Context {
	ctx := req.Context()
	ctx = xcontext.WithConfigs(ctx, r.cfg)
	ctx = xcontext.WithLogger(ctx, r.logger)
	ctx = xcontext.WithDB(ctx, r.db)
	ctx = xcontext.WithTokenEngine(ctx, r.tokenEngine)
	ctx = xcontext.WithSessionStore(ctx, r.sessions)
	ctx = xcontext.WithSnowFlake(ctx, r.snowflake)
	ctx = xcontext.WithHTTPClient(ctx, r.httpClient)
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	ctx = xcontext.WithResponseHolder(ctx)
	return ctx
}
