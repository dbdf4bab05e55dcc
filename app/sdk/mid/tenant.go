package mid

import (
	"context"
	"errors"
	"net/http"

	"github.com/rhettharrison/platform-api/app/sdk/errs"
	"github.com/rhettharrison/platform-api/business/domain/tenantbus"
	"github.com/rhettharrison/platform-api/business/sdk/sqldb"
	"github.com/rhettharrison/platform-api/business/sdk/tenant"
	"github.com/rhettharrison/platform-api/business/sdk/web"
	"github.com/rhettharrison/platform-api/business/types/hostname"
	"github.com/rhettharrison/platform-api/foundation/logger"
)

// TenantResolve identifies the tenant for the request from the Host
// header, binds the tenant context, and attaches the storage scope. The
// binding is cleared when the request finishes no matter how it finishes,
// so pooled workers never leak a tenant into the next request.
//
// Paths in the bypass list are platform endpoints that serve without a
// tenant. Everything else refuses to proceed unless a tenant resolves.
func TenantResolve(log *logger.Logger, tenantBus *tenantbus.Core, bypass []string) web.MidFunc {
	registerStage(StageTenantResolve)

	bypassSet := make(map[string]bool, len(bypass))
	for _, path := range bypass {
		bypassSet[path] = true
	}

	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			if bypassSet[r.URL.Path] {
				return next(ctx, r)
			}

			host, err := hostname.Parse(r.Host)
			if err != nil {
				return errs.Newf(errs.InvalidArgument, "tenant identification required")
			}

			tenantID, err := tenantBus.Resolve(ctx, host)
			if err != nil {
				if errors.Is(err, tenantbus.ErrNotFound) {
					// Generic miss: the response does not reveal whether the
					// host, slug, or tenant exists.
					return errs.Newf(errs.NotFound, "not found")
				}
				return errs.Newf(errs.Internal, "resolve tenant: %s", err)
			}

			ctx = tenant.WithHolder(ctx)

			defer func() {
				tenant.Clear(ctx)
				web.ClearTenantID(ctx)
			}()

			if err := tenant.Bind(ctx, tenantID); err != nil {
				return errs.Newf(errs.Internal, "bind tenant: %s", err)
			}

			ctx, err = sqldb.AttachScope(ctx, tenantID)
			if err != nil {
				return errs.Newf(errs.Internal, "attach scope: %s", err)
			}

			web.SetTenantID(ctx, tenantID.String())

			return next(ctx, r)
		}

		return h
	}

	return m
}
