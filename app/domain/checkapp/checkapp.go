// Package checkapp maintains the app layer api for the check domain.
package checkapp

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rhettharrison/platform-api/app/sdk/errs"
	"github.com/rhettharrison/platform-api/business/sdk/sqldb"
	"github.com/rhettharrison/platform-api/business/sdk/web"
	"github.com/rhettharrison/platform-api/foundation/logger"
)

type app struct {
	build string
	log   *logger.Logger
	db    *sqlx.DB
}

func newApp(build string, log *logger.Logger, db *sqlx.DB) *app {
	return &app{
		build: build,
		log:   log,
		db:    db,
	}
}

// readiness checks if the database is ready and if not will return a 500
// status. Do not respond by just returning an error because further up in
// the call stack it will interpret that as a non-trusted error.
func (a *app) readiness(ctx context.Context, r *http.Request) web.Encoder {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := sqldb.StatusCheck(ctx, a.db); err != nil {
		a.log.Info(ctx, "readiness failure", "ERROR", err)
		return errs.New(errs.Internal, err)
	}

	return Info{
		Status: "OK",
	}
}

// liveness returns simple status info if the service is alive. If the
// app is deployed to a Kubernetes cluster, it will also return pod, node,
// and namespace details via the Downward API. The Kubernetes environment
// variables need to be set within your Pod/Deployment manifest.
func (a *app) liveness(ctx context.Context, r *http.Request) web.Encoder {
	host, err := os.Hostname()
	if err != nil {
		host = "unavailable"
	}

	return Info{
		Status:     "up",
		Build:      a.build,
		Host:       host,
		GOMAXPROCS: runtime.GOMAXPROCS(0),
	}
}

// docs returns a listing of the endpoints the service exposes.
func (a *app) docs(ctx context.Context, r *http.Request) web.Encoder {
	return Docs{
		Service: "platform-api",
		Build:   a.build,
		Routes: []DocRoute{
			{Method: http.MethodGet, Path: "/v1/liveness", Desc: "Service liveness probe"},
			{Method: http.MethodGet, Path: "/v1/readiness", Desc: "Service readiness probe"},
			{Method: http.MethodGet, Path: "/v1/docs", Desc: "This route listing"},
			{Method: http.MethodPost, Path: "/v1/auth/login", Desc: "Exchange credentials for a token"},
			{Method: http.MethodGet, Path: "/v1/screens", Desc: "Serve the screen for the request path"},
			{Method: http.MethodGet, Path: "/v1/admin/screens", Desc: "List screens"},
			{Method: http.MethodGet, Path: "/v1/admin/screens/{screen_id}", Desc: "Retrieve a screen"},
			{Method: http.MethodPost, Path: "/v1/admin/screens", Desc: "Create a screen"},
			{Method: http.MethodPut, Path: "/v1/admin/screens/{screen_id}", Desc: "Update a screen"},
			{Method: http.MethodDelete, Path: "/v1/admin/screens/{screen_id}", Desc: "Delete a screen"},
		},
	}
}
