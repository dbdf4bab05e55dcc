// Package mux provides support to bind domain level routes to the
// application mux and to prove the tenant isolation mechanisms are wired
// before the server accepts traffic.
package mux

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rhettharrison/platform-api/app/sdk/auth"
	"github.com/rhettharrison/platform-api/app/sdk/mid"
	"github.com/rhettharrison/platform-api/business/domain/screenbus"
	"github.com/rhettharrison/platform-api/business/domain/tenantbus"
	"github.com/rhettharrison/platform-api/business/domain/userbus"
	"github.com/rhettharrison/platform-api/business/sdk/sqldb"
	"github.com/rhettharrison/platform-api/business/sdk/web"
	"github.com/rhettharrison/platform-api/foundation/logger"
	"go.opentelemetry.io/otel/trace"
)

// TenantBypassPaths are the platform endpoints that serve without a
// tenant. Everything else requires one.
var TenantBypassPaths = []string{
	"/v1/liveness",
	"/v1/readiness",
	"/v1/docs",
}

// Options represent optional parameters.
type Options struct {
	corsOrigin []string
}

// WithCORS provides configuration options for CORS.
func WithCORS(origins []string) func(opts *Options) {
	return func(opts *Options) {
		opts.corsOrigin = origins
	}
}

// AuthConfig contains auth service specific config.
type AuthConfig struct {
	Auth      *auth.Auth
	ActiveKID string
	TokenTTL  time.Duration
}

// BusConfig contains the business packages the handlers need.
type BusConfig struct {
	TenantBus *tenantbus.Core
	ScreenBus *screenbus.Core
	UserBus   *userbus.Core
}

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Build      string
	Log        *logger.Logger
	DB         *sqlx.DB
	Tracer     trace.Tracer
	BusConfig  BusConfig
	AuthConfig AuthConfig
}

// RouteAdder defines behavior that sets the routes to bind for an instance
// of the service.
type RouteAdder interface {
	Add(app *web.App, cfg Config)
}

// WebAPI constructs a http.Handler with all application routes bound. The
// tenant resolution stage is part of the base chain, so every route that
// is not on the bypass list runs with a bound tenant.
func WebAPI(cfg Config, routeAdder RouteAdder, options ...func(opts *Options)) http.Handler {
	// The request logger sits inside the resolution stage so its lines
	// carry the tenant attribute before the stage's cleanup removes it.
	// Requests rejected during resolution are logged by the errors stage.
	app := web.NewApp(
		cfg.Log.Info,
		cfg.Tracer,
		mid.Otel(cfg.Tracer),
		mid.Correlate(),
		mid.Errors(cfg.Log),
		mid.Metrics(),
		mid.Panics(),
		mid.TenantResolve(cfg.Log, cfg.BusConfig.TenantBus, TenantBypassPaths),
		mid.Logger(cfg.Log),
	)

	var opts Options
	for _, option := range options {
		option(&opts)
	}

	if len(opts.corsOrigin) > 0 {
		app.EnableCORS(opts.corsOrigin)
	}

	routeAdder.Add(app, cfg)

	return app
}

// ValidateIsolation proves the tenant isolation mechanisms are in place:
// the scoped query registry is populated and valid, and both isolation
// critical middleware stages were wired while the routes were bound. Call
// it after WebAPI and abort startup on any error.
func ValidateIsolation() error {
	if err := sqldb.ValidateScopedQueries(); err != nil {
		return fmt.Errorf("scoped queries: %w", err)
	}

	if err := mid.ValidateWiring(); err != nil {
		return fmt.Errorf("middleware wiring: %w", err)
	}

	return nil
}
