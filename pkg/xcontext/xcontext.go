package xcontext

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/dolpin-app/backend/config"
	"github.com/dolpin-app/backend/pkg/authenticator"
	"github.com/dolpin-app/backend/pkg/logger"
	"github.com/gorilla/sessions"
	"gorm.io/gorm"
)

type (
	configsKey      struct{}
	loggerKey       struct{}
	dbKey           struct{}
	txKey           struct{}
	httpClientKey   struct{}
	tokenEngineKey  struct{}
	sessionStoreKey struct{}
	snowflakeKey    struct{}
	requestUserKey  struct{}
	httpRequestKey  struct{}
	httpWriterKey   struct{}
	responseKey     struct{}
)

func WithConfigs(ctx context.Context, configs config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, configs)
}

func Configs(ctx context.Context) config.Configs {
	return ctx.Value(configsKey{}).(config.Configs)
}

func WithLogger(ctx context.Context, logger logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func Logger(ctx context.Context) logger.Logger {
	return ctx.Value(loggerKey{}).(logger.Logger)
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the transaction began by WithDBTransaction if any, otherwise the
// root gorm.DB.
func DB(ctx context.Context) *gorm.DB {
	if holder, ok := ctx.Value(txKey{}).(*txHolder); ok && !holder.done {
		return holder.tx
	}

	return ctx.Value(dbKey{}).(*gorm.DB)
}

type txHolder struct {
	tx   *gorm.DB
	done bool
}

// WithDBTransaction begins a transaction and all DB calls of the returned
// context operate on that transaction until it is committed or rollbacked.
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, &txHolder{tx: DB(ctx).Begin()})
}

func WithCommitDBTransaction(ctx context.Context) context.Context {
	if holder, ok := ctx.Value(txKey{}).(*txHolder); ok && !holder.done {
		holder.tx.Commit()
		holder.done = true
	}

	return ctx
}

// WithRollbackDBTransaction is a no-op if the transaction was committed
// before, so it is safe to defer this function right after beginning.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	if holder, ok := ctx.Value(txKey{}).(*txHolder); ok && !holder.done {
		holder.tx.Rollback()
		holder.done = true
	}

	return ctx
}

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine {
	return ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine)
}

func WithSessionStore(ctx context.Context, store sessions.Store) context.Context {
	return context.WithValue(ctx, sessionStoreKey{}, store)
}

func SessionStore(ctx context.Context) sessions.Store {
	return ctx.Value(sessionStoreKey{}).(sessions.Store)
}

func WithHTTPClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, httpClientKey{}, client)
}

func HTTPClient(ctx context.Context) *http.Client {
	if client, ok := ctx.Value(httpClientKey{}).(*http.Client); ok {
		return client
	}

	return http.DefaultClient
}

func WithSnowFlake(ctx context.Context, node *snowflake.Node) context.Context {
	return context.WithValue(ctx, snowflakeKey{}, node)
}

func SnowFlake(ctx context.Context) *snowflake.Node {
	return ctx.Value(snowflakeKey{}).(*snowflake.Node)
}

func WithRequestUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, requestUserKey{}, userID)
}

// RequestUserID returns the id of authenticated user, or zero if the request
// is anonymous.
func RequestUserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(requestUserKey{}).(int64); ok {
		return id
	}

	return 0
}

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

func HTTPRequest(ctx context.Context) *http.Request {
	r, _ := ctx.Value(httpRequestKey{}).(*http.Request)
	return r
}

func WithHTTPWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, httpWriterKey{}, w)
}

func HTTPWriter(ctx context.Context) http.ResponseWriter {
	w, _ := ctx.Value(httpWriterKey{}).(http.ResponseWriter)
	return w
}

type responseHolder struct {
	resp any
	err  error
}

// WithResponseHolder must be called before SetResponse, GetResponse,
// SetError, and GetError. The router calls this at the beginning of every
// request.
func WithResponseHolder(ctx context.Context) context.Context {
	return context.WithValue(ctx, responseKey{}, &responseHolder{})
}

func SetResponse(ctx context.Context, resp any) {
	ctx.Value(responseKey{}).(*responseHolder).resp = resp
}

func GetResponse(ctx context.Context) any {
	return ctx.Value(responseKey{}).(*responseHolder).resp
}

func SetError(ctx context.Context, err error) {
	ctx.Value(responseKey{}).(*responseHolder).err = err
}

func GetError(ctx context.Context) error {
	return ctx.Value(responseKey{}).(*responseHolder).err
}
