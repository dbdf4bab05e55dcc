package tenantbus_test

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/business/domain/tenantbus"
	"github.com/rhettharrison/platform-api/business/sdk/sqldb"
	"github.com/rhettharrison/platform-api/business/types/hostname"
	"github.com/rhettharrison/platform-api/foundation/logger"
	"github.com/stretchr/testify/require"
)

var (
	acmeID    = uuid.New()
	globexID  = uuid.New()
	defaultID = uuid.New()
)

func Test_Resolve(t *testing.T) {
	storer := &stubStorer{
		domains: map[string]uuid.UUID{
			"www.acme.com": acmeID,
		},
		slugs: map[string]uuid.UUID{
			"default": defaultID,
			"globex":  globexID,
			"acme":    acmeID,
		},
	}

	tests := []struct {
		name    string
		devMode bool
		host    string
		want    uuid.UUID
		wantErr error
	}{
		{"domain binding", false, "www.acme.com", acmeID, nil},
		{"subdomain slug", false, "globex.platform.example", globexID, nil},
		{"binding wins over slug", false, "www.acme.com", acmeID, nil},
		{"dev localhost", true, "localhost", defaultID, nil},
		{"prod localhost", false, "localhost", uuid.Nil, tenantbus.ErrNotFound},
		{"two labels no binding", false, "example.com", uuid.Nil, tenantbus.ErrNotFound},
		{"unknown slug", false, "nosuch.platform.example", uuid.Nil, tenantbus.ErrNotFound},
		{"unknown host", false, "unknown.io", uuid.Nil, tenantbus.ErrNotFound},
	}

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core := tenantbus.NewCore(log, storer, tt.devMode)

			got, err := core.Resolve(context.Background(), hostname.MustParse(tt.host))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func Test_Resolve_BindingBeatsSlug(t *testing.T) {

	// The host would resolve to globex by its first label, but an explicit
	// binding points it at acme. The binding must win.
	storer := &stubStorer{
		domains: map[string]uuid.UUID{
			"globex.platform.example": acmeID,
		},
		slugs: map[string]uuid.UUID{
			"globex": globexID,
		},
	}

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)
	core := tenantbus.NewCore(log, storer, false)

	got, err := core.Resolve(context.Background(), hostname.MustParse("globex.platform.example"))
	require.NoError(t, err)
	require.Equal(t, acmeID, got)
}

func Test_Create_InvalidSlug(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)
	core := tenantbus.NewCore(log, &stubStorer{}, false)

	for _, slug := range []string{"", "UPPER", "has space", "-leading", "trailing-", "dots.bad"} {
		_, err := core.Create(context.Background(), tenantbus.NewTenant{Name: "x", Slug: slug})
		require.ErrorIs(t, err, tenantbus.ErrInvalidSlug, slug)
	}
}

func Test_BindDomain(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)
	storer := &stubStorer{}
	core := tenantbus.NewCore(log, storer, false)

	nb := tenantbus.NewDomainBinding{
		TenantID:  acmeID,
		Domain:    hostname.MustParse("www.acme.com"),
		IsPrimary: true,
	}

	got, err := core.BindDomain(context.Background(), nb)
	require.NoError(t, err)
	require.Equal(t, acmeID, got.TenantID)
	require.True(t, got.IsPrimary)

	require.Len(t, storer.bindings, 1)
	require.Equal(t, got, storer.bindings[0])
	require.True(t, storer.bindings[0].IsPrimary)
}

// =============================================================================

// stubStorer answers resolution queries from in-memory maps.
type stubStorer struct {
	domains  map[string]uuid.UUID
	slugs    map[string]uuid.UUID
	created  []tenantbus.Tenant
	bindings []tenantbus.DomainBinding
}

func (s *stubStorer) NewWithTx(tx sqldb.CommitRollbacker) (tenantbus.Storer, error) {
	return s, nil
}

func (s *stubStorer) Create(ctx context.Context, t tenantbus.Tenant) error {
	s.created = append(s.created, t)
	return nil
}

func (s *stubStorer) Update(ctx context.Context, t tenantbus.Tenant) error { return nil }
func (s *stubStorer) Delete(ctx context.Context, t tenantbus.Tenant) error { return nil }

func (s *stubStorer) QueryByID(ctx context.Context, tenantID uuid.UUID) (tenantbus.Tenant, error) {
	return tenantbus.Tenant{}, tenantbus.ErrNotFound
}

func (s *stubStorer) QueryBySlug(ctx context.Context, slug string) (tenantbus.Tenant, error) {
	return tenantbus.Tenant{}, tenantbus.ErrNotFound
}

func (s *stubStorer) QueryIDByDomain(ctx context.Context, domain hostname.Hostname) (uuid.UUID, error) {
	id, exists := s.domains[domain.String()]
	if !exists {
		return uuid.Nil, tenantbus.ErrNotFound
	}
	return id, nil
}

func (s *stubStorer) QueryIDBySlug(ctx context.Context, slug string) (uuid.UUID, error) {
	id, exists := s.slugs[slug]
	if !exists {
		return uuid.Nil, tenantbus.ErrNotFound
	}
	return id, nil
}

func (s *stubStorer) CreateDomainBinding(ctx context.Context, db tenantbus.DomainBinding) error {
	s.bindings = append(s.bindings, db)
	return nil
}

func (s *stubStorer) QueryDomainBindings(ctx context.Context, tenantID uuid.UUID) ([]tenantbus.DomainBinding, error) {
	return nil, nil
}
