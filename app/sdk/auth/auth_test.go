package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/app/sdk/auth"
	"github.com/rhettharrison/platform-api/business/sdk/tenant"
	"github.com/rhettharrison/platform-api/business/types/role"
	"github.com/rhettharrison/platform-api/foundation/logger"
	"github.com/stretchr/testify/require"
)

const kid = "test-key"

func Test_Authenticate(t *testing.T) {
	a := newTestAuth(t)

	tenantID := uuid.New()
	userID := uuid.New()

	token, err := a.GenerateToken(kid, tenantID, userID, []role.Role{role.Admin}, time.Hour)
	require.NoError(t, err)

	t.Run("matching tenant", func(t *testing.T) {
		ctx := boundCtx(t, tenantID)

		claims, err := a.Authenticate(ctx, "Bearer "+token)
		require.NoError(t, err)
		require.Equal(t, userID.String(), claims.Subject)
		require.Equal(t, tenantID.String(), claims.TenantID)
		require.True(t, claims.HasRole(role.Admin))
	})

	t.Run("credential for another tenant", func(t *testing.T) {
		ctx := boundCtx(t, uuid.New())

		_, err := a.Authenticate(ctx, "Bearer "+token)
		require.ErrorIs(t, err, auth.ErrNotAuthenticated)
	})

	t.Run("no tenant bound", func(t *testing.T) {
		_, err := a.Authenticate(context.Background(), "Bearer "+token)
		require.ErrorIs(t, err, auth.ErrNotAuthenticated)
	})

	t.Run("malformed token", func(t *testing.T) {
		ctx := boundCtx(t, tenantID)

		_, err := a.Authenticate(ctx, "Bearer not.a.token")
		require.ErrorIs(t, err, auth.ErrNotAuthenticated)
	})

	t.Run("missing bearer scheme", func(t *testing.T) {
		ctx := boundCtx(t, tenantID)

		_, err := a.Authenticate(ctx, token)
		require.ErrorIs(t, err, auth.ErrNotAuthenticated)
	})

	t.Run("expired token", func(t *testing.T) {
		ctx := boundCtx(t, tenantID)

		expired, err := a.GenerateToken(kid, tenantID, userID, []role.Role{role.Admin}, -time.Hour)
		require.NoError(t, err)

		_, err = a.Authenticate(ctx, "Bearer "+expired)
		require.ErrorIs(t, err, auth.ErrNotAuthenticated)
	})
}

// =============================================================================

func newTestAuth(t *testing.T) *auth.Auth {
	t.Helper()

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)

	a, err := auth.New(auth.Config{
		Log:       log,
		KeyLookup: newKeyStore(t),
		Issuer:    "platform api",
	})
	require.NoError(t, err)

	return a
}

func boundCtx(t *testing.T, tenantID uuid.UUID) context.Context {
	t.Helper()

	ctx := tenant.WithHolder(context.Background())
	require.NoError(t, tenant.Bind(ctx, tenantID))

	return ctx
}

// keyStore is an in-memory KeyLookup over a single generated RSA key.
type keyStore struct {
	privatePEM string
	publicPEM  string
}

func newKeyStore(t *testing.T) *keyStore {
	t.Helper()

	private, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privateBlock := pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(private),
	}

	publicBlock := pem.Block{
		Type:  "RSA PUBLIC KEY",
		Bytes: x509.MarshalPKCS1PublicKey(&private.PublicKey),
	}

	return &keyStore{
		privatePEM: string(pem.EncodeToMemory(&privateBlock)),
		publicPEM:  string(pem.EncodeToMemory(&publicBlock)),
	}
}

func (ks *keyStore) PrivateKey(string) (string, error) {
	return ks.privatePEM, nil
}

func (ks *keyStore) PublicKey(string) (string, error) {
	return ks.publicPEM, nil
}
