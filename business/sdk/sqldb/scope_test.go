package sqldb

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/business/sdk/tenant"
	"github.com/stretchr/testify/require"
)

type stampModel struct {
	Scoped
	Name string `db:"name"`
}

func scopedCtx(t *testing.T, tenantID uuid.UUID) context.Context {
	t.Helper()

	ctx := tenant.WithHolder(context.Background())
	require.NoError(t, tenant.Bind(ctx, tenantID))

	ctx, err := AttachScope(ctx, tenantID)
	require.NoError(t, err)

	return ctx
}

func Test_AttachScope(t *testing.T) {
	_, err := AttachScope(context.Background(), uuid.Nil)
	require.ErrorIs(t, err, ErrInvalidScope)

	tenantID := uuid.New()
	ctx, err := AttachScope(context.Background(), tenantID)
	require.NoError(t, err)

	got, err := ScopeTenantID(ctx)
	require.NoError(t, err)
	require.Equal(t, tenantID, got)

	_, err = ScopeTenantID(context.Background())
	require.ErrorIs(t, err, ErrScopeNotAttached)
}

func Test_CheckScope(t *testing.T) {
	tenantID := uuid.New()

	t.Run("match", func(t *testing.T) {
		got, err := checkScope(scopedCtx(t, tenantID))
		require.NoError(t, err)
		require.Equal(t, tenantID, got)
	})

	t.Run("no scope", func(t *testing.T) {
		ctx := tenant.WithHolder(context.Background())
		require.NoError(t, tenant.Bind(ctx, tenantID))

		_, err := checkScope(ctx)
		require.ErrorIs(t, err, ErrScopeNotAttached)
	})

	t.Run("no tenant context", func(t *testing.T) {
		ctx, err := AttachScope(context.Background(), tenantID)
		require.NoError(t, err)

		_, err = checkScope(ctx)
		require.ErrorIs(t, err, tenant.ErrUnbound)
	})

	t.Run("scope drifted from context", func(t *testing.T) {
		ctx := tenant.WithHolder(context.Background())
		require.NoError(t, tenant.Bind(ctx, tenantID))

		ctx, err := AttachScope(ctx, uuid.New())
		require.NoError(t, err)

		_, err = checkScope(ctx)
		require.ErrorIs(t, err, ErrScopeMismatch)
	})
}

func Test_PrepareScopedStampsTenant(t *testing.T) {
	tenantID := uuid.New()
	ctx := scopedCtx(t, tenantID)

	const q = `
	INSERT INTO "public"."widgets"
		(tenant_id, name)
	VALUES
		(:tenant_id, :name)`
	RegisterScopedQuery("test.widgets.insert", q)

	// The caller's tenant value is overwritten with the session tenant.
	data := stampModel{Scoped: Scoped{TenantID: uuid.New()}, Name: "w"}

	got, err := prepareScoped(ctx, q, &data)
	require.NoError(t, err)
	require.Equal(t, tenantID, got)
	require.Equal(t, tenantID, data.TenantID)
}

func Test_PrepareScopedRejectsUnregistered(t *testing.T) {
	ctx := scopedCtx(t, uuid.New())

	const q = `SELECT name FROM "public"."widgets" WHERE tenant_id = :tenant_id`

	var data stampModel
	_, err := prepareScoped(ctx, q, &data)
	require.ErrorIs(t, err, ErrQueryNotRegistered)
}

func Test_ValidateScopedQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{
			name:  "select with predicate",
			query: `SELECT screen_id FROM "public"."screens" WHERE tenant_id = :tenant_id`,
		},
		{
			name:  "insert with stamped column",
			query: `INSERT INTO "public"."screens" (screen_id, tenant_id) VALUES (:screen_id, :tenant_id)`,
		},
		{
			name:  "update with predicate",
			query: `UPDATE "public"."screens" SET path = :path WHERE screen_id = :screen_id AND tenant_id = :tenant_id`,
		},
		{
			name:    "select without predicate",
			query:   `SELECT screen_id FROM "public"."screens"`,
			wantErr: true,
		},
		{
			name:    "delete without predicate",
			query:   `DELETE FROM "public"."screens" WHERE screen_id = :screen_id`,
			wantErr: true,
		},
		{
			name:    "update rewriting tenant column",
			query:   `UPDATE "public"."screens" SET tenant_id = :tenant_id WHERE tenant_id = :tenant_id`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateScopedQuery(tt.query)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func Test_ValidateScopedQueries(t *testing.T) {
	RegisterScopedQuery("test.widgets.select", `SELECT name FROM "public"."widgets" WHERE tenant_id = :tenant_id AND name = :name`)

	require.NoError(t, ValidateScopedQueries())
}
