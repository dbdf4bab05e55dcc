// Package authapp maintains the app layer api for the auth domain.
package authapp

import (
	"context"
	"net/http"
	"time"

	"github.com/rhettharrison/platform-api/app/sdk/auth"
	"github.com/rhettharrison/platform-api/app/sdk/errs"
	"github.com/rhettharrison/platform-api/business/domain/userbus"
	"github.com/rhettharrison/platform-api/business/sdk/tenant"
	"github.com/rhettharrison/platform-api/business/sdk/web"
	"github.com/rhettharrison/platform-api/business/types/password"
	"github.com/rhettharrison/platform-api/business/types/username"
)

type app struct {
	auth      *auth.Auth
	userBus   *userbus.Core
	activeKID string
	tokenTTL  time.Duration
}

func newApp(ath *auth.Auth, userBus *userbus.Core, activeKID string, tokenTTL time.Duration) *app {
	return &app{
		auth:      ath,
		userBus:   userBus,
		activeKID: activeKID,
		tokenTTL:  tokenTTL,
	}
}

// login authenticates a user of the resolved tenant and issues a token
// bound to that tenant. A malformed username, an unknown user, and a wrong
// password all produce the same unauthenticated response.
func (a *app) login(ctx context.Context, r *http.Request) web.Encoder {
	var req Login

	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	uname, err := username.Parse(req.Username)
	if err != nil {
		return errs.New(errs.Unauthenticated, userbus.ErrAuthenticationFailure)
	}

	pass, err := password.Parse(req.Password)
	if err != nil {
		return errs.New(errs.Unauthenticated, userbus.ErrAuthenticationFailure)
	}

	usr, err := a.userBus.Authenticate(ctx, uname, pass)
	if err != nil {
		return errs.New(errs.Unauthenticated, userbus.ErrAuthenticationFailure)
	}

	tenantID, err := tenant.Current(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant not bound: %s", err)
	}

	tokenStr, err := a.auth.GenerateToken(a.activeKID, tenantID, usr.ID, usr.Roles, a.tokenTTL)
	if err != nil {
		return errs.Newf(errs.Internal, "generating token: %s", err)
	}

	return toAppToken(tokenStr)
}
