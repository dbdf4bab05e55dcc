package mid

import (
	"context"
	"net/http"
	"time"

	"github.com/rhettharrison/platform-api/business/sdk/web"
	"github.com/rhettharrison/platform-api/foundation/logger"
)

// Logger writes information about the request to the logs. The resolved
// tenant rides along on every line so a request can always be traced back
// to the tenant it served.
func Logger(log *logger.Logger) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			now := time.Now()

			path := r.URL.Path
			if r.URL.RawQuery != "" {
				path = path + "?" + r.URL.RawQuery
			}

			log.Info(ctx, "request started", "method", r.Method, "path", path, "remoteaddr", r.RemoteAddr)

			resp := next(ctx, r)

			var err error
			if e := checkIsError(resp); e != nil {
				err = e
			}

			log.Info(ctx, "request completed", "method", r.Method, "path", path,
				"remoteaddr", r.RemoteAddr, "statuscode", web.GetValues(ctx).StatusCode,
				"tenant_id", web.GetTenantID(ctx), "since", time.Since(now).String(),
				"err", err)

			return resp
		}

		return h
	}

	return m
}
