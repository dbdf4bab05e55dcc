package screenapp

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/rhettharrison/platform-api/app/sdk/auth"
	"github.com/rhettharrison/platform-api/app/sdk/mid"
	"github.com/rhettharrison/platform-api/business/domain/screenbus"
	"github.com/rhettharrison/platform-api/business/sdk/sqldb"
	"github.com/rhettharrison/platform-api/business/sdk/web"
	"github.com/rhettharrison/platform-api/business/types/role"
	"github.com/rhettharrison/platform-api/foundation/logger"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log       *logger.Logger
	DB        *sqlx.DB
	Auth      *auth.Auth
	ScreenBus *screenbus.Core
}

// Routes adds specific routes for this group. The public serve endpoint
// needs only the resolved tenant; the admin endpoints additionally require
// an authenticated user with an editorial role.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	authen := mid.Authenticate(cfg.Auth)
	editors := mid.Authorize(role.Admin, role.Editor)
	transaction := mid.BeginCommitRollback(cfg.Log, sqldb.NewBeginner(cfg.DB))

	api := newApp(cfg.ScreenBus)

	app.HandlerFunc(http.MethodGet, version, "/screens", api.serve)

	app.HandlerFunc(http.MethodGet, version, "/admin/screens", api.query, authen, editors)
	app.HandlerFunc(http.MethodGet, version, "/admin/screens/{screen_id}", api.queryByIDHandler, authen, editors)
	app.HandlerFunc(http.MethodPost, version, "/admin/screens", api.create, authen, editors, transaction)
	app.HandlerFunc(http.MethodPut, version, "/admin/screens/{screen_id}", api.update, authen, editors, transaction)
	app.HandlerFunc(http.MethodDelete, version, "/admin/screens/{screen_id}", api.delete, authen, editors, transaction)
}
