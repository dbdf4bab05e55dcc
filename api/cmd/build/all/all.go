// Package all binds all the routes into the specified app.
package all

import (
	"github.com/rhettharrison/platform-api/app/domain/authapp"
	"github.com/rhettharrison/platform-api/app/domain/checkapp"
	"github.com/rhettharrison/platform-api/app/domain/screenapp"
	"github.com/rhettharrison/platform-api/app/sdk/mux"
	"github.com/rhettharrison/platform-api/business/sdk/web"
)

// Routes constructs the add value which provides the implementation of
// of RouteAdder for specifying what routes to bind to this instance.
func Routes() add {
	return add{}
}

type add struct{}

func (add) Add(app *web.App, cfg mux.Config) {
	checkapp.Routes(app, checkapp.Config{
		Build: cfg.Build,
		Log:   cfg.Log,
		DB:    cfg.DB,
	})

	authapp.Routes(app, authapp.Config{
		Auth:      cfg.AuthConfig.Auth,
		UserBus:   cfg.BusConfig.UserBus,
		ActiveKID: cfg.AuthConfig.ActiveKID,
		TokenTTL:  cfg.AuthConfig.TokenTTL,
	})

	screenapp.Routes(app, screenapp.Config{
		Log:       cfg.Log,
		DB:        cfg.DB,
		Auth:      cfg.AuthConfig.Auth,
		ScreenBus: cfg.BusConfig.ScreenBus,
	})
}
