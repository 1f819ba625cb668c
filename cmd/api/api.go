package api

import (
	"context"
	"net/http"
	"os"

	authHandlers "github.com/doitintl/hello/gcp-footprint/auth/handlers"
	"github.com/doitintl/hello/gcp-footprint/cache"
	"github.com/doitintl/hello/gcp-footprint/common"
	discoveryHandlers "github.com/doitintl/hello/gcp-footprint/discovery/handlers"
	"github.com/doitintl/hello/gcp-footprint/discovery/service"
	"github.com/doitintl/hello/gcp-footprint/framework/connection"
	"github.com/doitintl/hello/gcp-footprint/framework/mid"
	"github.com/doitintl/hello/gcp-footprint/framework/web"
	"github.com/doitintl/hello/gcp-footprint/logger"
)

// API constructs an api with the needed functionality.
type API struct {
	shutdown chan os.Signal
	log      *logger.Logging
	conn     *connection.Connection
	cfg      *common.Config
	session  *service.Session
}

func NewAPI(shutdown chan os.Signal, logging *logger.Logging, conn *connection.Connection, cfg *common.Config) *API {
	return &API{
		shutdown: shutdown,
		log:      logging,
		conn:     conn,
		cfg:      cfg,
	}
}

// NewSession builds the discovery session over the connection's fetchers. The cache is used
// only when redis is reachable.
func NewSession(log logger.Provider, conn *connection.Connection, cfg *common.Config) *service.Session {
	discoverer := service.NewDiscoverer(log, service.NewFetchers(log, conn, cfg),
		service.WithConcurrency(cfg.DiscoveryConcurrency))

	opts := []service.SessionOption{
		service.WithInsights(cfg.AnthropicAPIKey, cfg.InsightsModel),
	}

	if rdb := conn.Redis(); rdb != nil {
		opts = append(opts, service.WithStore(cache.NewRedisStore(rdb, cfg.SessionID, cfg.CacheTTL)))
	}

	return service.NewSession(log, discoverer, opts...)
}

// Build builds the api endpoints with the needed middlewares, and returns http.Handler interface.
func (a *API) Build() http.Handler {
	loggerProvider := logger.FromContext

	ctx := context.Background()

	a.session = NewSession(a.log.Logger, a.conn, a.cfg)
	if err := a.session.Restore(ctx); err != nil {
		a.log.Logger(ctx).Warningf("api: %s", err)
	}

	// Construct the web.App which holds all routes as well as common Middleware.
	app := web.NewApp(a.shutdown, a.cfg, mid.Logger(), mid.Errors(), mid.Panics(), mid.Sentry())

	discovery := discoveryHandlers.NewDiscovery(loggerProvider, a.session)
	auth := authHandlers.NewAuth(loggerProvider, a.conn, a.session.SignOut)

	app.Get("/health", discoveryHandlers.Health)

	app.Post("/discovery", discovery.Start)
	app.Get("/discovery", discovery.Snapshot)
	app.Get("/discovery/status", discovery.Status)
	app.Get("/discovery/export", discovery.Export)
	app.Get("/graph", discovery.Graph, mid.ValidateQueryBool("services"))
	app.Get("/findings", discovery.Findings)
	app.Post("/insights", discovery.Insights)

	authGroup := web.NewGroup(app, "/auth")
	authGroup.Get("/session", auth.Session)
	authGroup.Post("/signin", auth.SignIn)
	authGroup.Post("/refresh", auth.Refresh)
	authGroup.Post("/signout", auth.SignOut)

	return app
}

// Close cancels a running discovery and waits for it to return.
func (a *API) Close() {
	if a.session != nil {
		a.session.Close()
	}
}
