package mid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/app/sdk/auth"
	"github.com/rhettharrison/platform-api/app/sdk/errs"
	"github.com/rhettharrison/platform-api/business/sdk/web"
)

// Authenticate validates the bearer token in the authorization header.
// The token must verify structurally and its tenant claim must match the
// tenant already bound for this request; every failure mode, including a
// credential issued under another tenant, produces the same
// unauthenticated response.
func Authenticate(a *auth.Auth) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			claims, err := a.Authenticate(ctx, r.Header.Get("authorization"))
			if err != nil {
				return errs.New(errs.Unauthenticated, auth.ErrNotAuthenticated)
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return errs.New(errs.Unauthenticated, auth.ErrNotAuthenticated)
			}

			ctx = setUserID(ctx, userID)
			ctx = setClaims(ctx, claims)

			return next(ctx, r)
		}

		return h
	}

	return m
}
