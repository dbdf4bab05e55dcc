package mid

import (
	"context"
	"errors"
	"net/http"

	"github.com/rhettharrison/platform-api/app/sdk/errs"
	"github.com/rhettharrison/platform-api/business/sdk/web"
	"github.com/rhettharrison/platform-api/business/types/role"
)

// Authorize verifies the authenticated user carries at least one of the
// specified roles.
func Authorize(roles ...role.Role) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			claims := GetClaims(ctx)
			if claims.Subject == "" {
				return errs.New(errs.Unauthenticated, errors.New("not authenticated"))
			}

			if !claims.HasRole(roles...) {
				return errs.Newf(errs.PermissionDenied, "user is not authorized for this action")
			}

			return next(ctx, r)
		}

		return h
	}

	return m
}
