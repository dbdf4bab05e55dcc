package authapp

import (
	"net/http"
	"time"

	"github.com/rhettharrison/platform-api/app/sdk/auth"
	"github.com/rhettharrison/platform-api/business/domain/userbus"
	"github.com/rhettharrison/platform-api/business/sdk/web"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Auth      *auth.Auth
	UserBus   *userbus.Core
	ActiveKID string
	TokenTTL  time.Duration
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	api := newApp(cfg.Auth, cfg.UserBus, cfg.ActiveKID, cfg.TokenTTL)

	app.HandlerFunc(http.MethodPost, version, "/auth/login", api.login)
}
