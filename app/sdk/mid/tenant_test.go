package mid_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/app/sdk/errs"
	"github.com/rhettharrison/platform-api/app/sdk/mid"
	"github.com/rhettharrison/platform-api/business/domain/tenantbus"
	"github.com/rhettharrison/platform-api/business/sdk/sqldb"
	"github.com/rhettharrison/platform-api/business/sdk/tenant"
	"github.com/rhettharrison/platform-api/business/sdk/web"
	"github.com/rhettharrison/platform-api/business/types/hostname"
	"github.com/rhettharrison/platform-api/foundation/logger"
	"github.com/stretchr/testify/require"
)

var acmeID = uuid.New()

func newResolveMid(t *testing.T) web.MidFunc {
	t.Helper()

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)

	storer := &stubStorer{
		slugs: map[string]uuid.UUID{"acme": acmeID},
	}

	bus := tenantbus.NewCore(log, storer, false)

	return mid.TenantResolve(log, bus, []string{"/v1/liveness"})
}

func Test_TenantResolve_BindsAndClears(t *testing.T) {
	resolve := newResolveMid(t)

	var seenCtx context.Context
	handler := resolve(func(ctx context.Context, r *http.Request) web.Encoder {
		seenCtx = ctx

		got, err := tenant.Current(ctx)
		require.NoError(t, err)
		require.Equal(t, acmeID, got)

		scopeID, err := sqldb.ScopeTenantID(ctx)
		require.NoError(t, err)
		require.Equal(t, acmeID, scopeID)

		return web.NewNoResponse()
	})

	r := httptest.NewRequest(http.MethodGet, "http://acme.platform.test/v1/screens", nil)

	resp := handler(context.Background(), r)
	require.Nil(t, checkErr(resp))

	// The holder is cleared when the stage unwinds, even through contexts
	// derived inside the handler.
	require.Equal(t, uuid.Nil, tenant.CurrentOrNone(seenCtx))
}

func Test_TenantResolve_ClearsOnError(t *testing.T) {
	resolve := newResolveMid(t)

	var seenCtx context.Context
	handler := resolve(func(ctx context.Context, r *http.Request) web.Encoder {
		seenCtx = ctx
		return errs.Newf(errs.Internal, "boom")
	})

	r := httptest.NewRequest(http.MethodGet, "http://acme.platform.test/v1/screens", nil)

	resp := handler(context.Background(), r)
	require.Error(t, checkErr(resp))
	require.Equal(t, uuid.Nil, tenant.CurrentOrNone(seenCtx))
}

func Test_TenantResolve_ClearsOnPanic(t *testing.T) {
	resolve := newResolveMid(t)

	var seenCtx context.Context
	handler := resolve(func(ctx context.Context, r *http.Request) web.Encoder {
		seenCtx = ctx
		panic("boom")
	})

	r := httptest.NewRequest(http.MethodGet, "http://acme.platform.test/v1/screens", nil)

	require.Panics(t, func() {
		handler(context.Background(), r)
	})
	require.Equal(t, uuid.Nil, tenant.CurrentOrNone(seenCtx))
}

func Test_TenantResolve_InvalidHost(t *testing.T) {
	resolve := newResolveMid(t)

	handler := resolve(func(ctx context.Context, r *http.Request) web.Encoder {
		t.Fatal("handler must not run")
		return nil
	})

	r := httptest.NewRequest(http.MethodGet, "http://placeholder/v1/screens", nil)
	r.Host = "bad host"

	resp := handler(context.Background(), r)

	var appErr *errs.Error
	require.ErrorAs(t, checkErr(resp), &appErr)
	require.Equal(t, errs.InvalidArgument, appErr.Code)
}

func Test_TenantResolve_UnknownHost(t *testing.T) {
	resolve := newResolveMid(t)

	handler := resolve(func(ctx context.Context, r *http.Request) web.Encoder {
		t.Fatal("handler must not run")
		return nil
	})

	r := httptest.NewRequest(http.MethodGet, "http://unknown.io/v1/screens", nil)

	resp := handler(context.Background(), r)

	var appErr *errs.Error
	require.ErrorAs(t, checkErr(resp), &appErr)
	require.Equal(t, errs.NotFound, appErr.Code)
	require.Equal(t, "not found", appErr.Message)
}

func Test_TenantResolve_Bypass(t *testing.T) {
	resolve := newResolveMid(t)

	handler := resolve(func(ctx context.Context, r *http.Request) web.Encoder {
		require.Equal(t, uuid.Nil, tenant.CurrentOrNone(ctx))
		return web.NewNoResponse()
	})

	// No resolvable tenant on this host, but the path is on the bypass list.
	r := httptest.NewRequest(http.MethodGet, "http://unknown.io/v1/liveness", nil)

	resp := handler(context.Background(), r)
	require.Nil(t, checkErr(resp))
}

func checkErr(e web.Encoder) error {
	if err, ok := e.(error); ok {
		return err
	}
	return nil
}

// =============================================================================

type stubStorer struct {
	slugs map[string]uuid.UUID
}

func (s *stubStorer) NewWithTx(tx sqldb.CommitRollbacker) (tenantbus.Storer, error) {
	return s, nil
}

func (s *stubStorer) Create(ctx context.Context, t tenantbus.Tenant) error { return nil }
func (s *stubStorer) Update(ctx context.Context, t tenantbus.Tenant) error { return nil }
func (s *stubStorer) Delete(ctx context.Context, t tenantbus.Tenant) error { return nil }

func (s *stubStorer) QueryByID(ctx context.Context, tenantID uuid.UUID) (tenantbus.Tenant, error) {
	return tenantbus.Tenant{}, tenantbus.ErrNotFound
}

func (s *stubStorer) QueryBySlug(ctx context.Context, slug string) (tenantbus.Tenant, error) {
	return tenantbus.Tenant{}, tenantbus.ErrNotFound
}

func (s *stubStorer) QueryIDByDomain(ctx context.Context, domain hostname.Hostname) (uuid.UUID, error) {
	return uuid.Nil, tenantbus.ErrNotFound
}

func (s *stubStorer) QueryIDBySlug(ctx context.Context, slug string) (uuid.UUID, error) {
	id, exists := s.slugs[slug]
	if !exists {
		return uuid.Nil, tenantbus.ErrNotFound
	}
	return id, nil
}

func (s *stubStorer) CreateDomainBinding(ctx context.Context, db tenantbus.DomainBinding) error {
	return nil
}

func (s *stubStorer) QueryDomainBindings(ctx context.Context, tenantID uuid.UUID) ([]tenantbus.DomainBinding, error) {
	return nil, nil
}
