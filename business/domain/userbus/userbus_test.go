package userbus_test

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/business/domain/userbus"
	"github.com/rhettharrison/platform-api/business/sdk/sqldb"
	"github.com/rhettharrison/platform-api/business/sdk/tenant"
	"github.com/rhettharrison/platform-api/business/types/password"
	"github.com/rhettharrison/platform-api/business/types/role"
	"github.com/rhettharrison/platform-api/business/types/username"
	"github.com/rhettharrison/platform-api/foundation/logger"
	"github.com/stretchr/testify/require"
)

func scopedCtx(t *testing.T, tenantID uuid.UUID) context.Context {
	t.Helper()

	ctx := tenant.WithHolder(context.Background())
	require.NoError(t, tenant.Bind(ctx, tenantID))

	ctx, err := sqldb.AttachScope(ctx, tenantID)
	require.NoError(t, err)

	return ctx
}

func Test_Authenticate(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)
	core := userbus.NewCore(log, newMemStorer())

	tenantID := uuid.New()
	ctx := scopedCtx(t, tenantID)

	usr, err := core.Create(ctx, userbus.NewUser{
		Name:     "Ada",
		Username: username.MustParse("ada"),
		Roles:    []role.Role{role.Admin},
		Password: password.MustParse("correct-horse"),
	})
	require.NoError(t, err)
	require.Equal(t, tenantID, usr.TenantID)

	t.Run("success", func(t *testing.T) {
		got, err := core.Authenticate(ctx, username.MustParse("ada"), password.MustParse("correct-horse"))
		require.NoError(t, err)
		require.Equal(t, usr.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := core.Authenticate(ctx, username.MustParse("ada"), password.MustParse("battery-staple"))
		require.ErrorIs(t, err, userbus.ErrAuthenticationFailure)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := core.Authenticate(ctx, username.MustParse("nobody"), password.MustParse("correct-horse"))
		require.ErrorIs(t, err, userbus.ErrAuthenticationFailure)
	})

	t.Run("disabled user", func(t *testing.T) {
		enabled := false
		_, err := core.Update(ctx, usr, userbus.UpdateUser{Enabled: &enabled})
		require.NoError(t, err)

		_, err = core.Authenticate(ctx, username.MustParse("ada"), password.MustParse("correct-horse"))
		require.ErrorIs(t, err, userbus.ErrAuthenticationFailure)
	})

	t.Run("other tenant cannot see user", func(t *testing.T) {
		otherCtx := scopedCtx(t, uuid.New())

		_, err := core.QueryByUsername(otherCtx, username.MustParse("ada"))
		require.ErrorIs(t, err, userbus.ErrNotFound)
	})
}

func Test_Create_Unbound(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)
	core := userbus.NewCore(log, newMemStorer())

	_, err := core.Create(context.Background(), userbus.NewUser{
		Username: username.MustParse("ada"),
		Password: password.MustParse("correct-horse"),
	})
	require.ErrorIs(t, err, tenant.ErrUnbound)
}

// =============================================================================

// memStorer keeps users per tenant keyed on the session scope.
type memStorer struct {
	users map[uuid.UUID]map[uuid.UUID]userbus.User
}

func newMemStorer() *memStorer {
	return &memStorer{
		users: make(map[uuid.UUID]map[uuid.UUID]userbus.User),
	}
}

func (s *memStorer) scope(ctx context.Context) (uuid.UUID, error) {
	return sqldb.ScopeTenantID(ctx)
}

func (s *memStorer) NewWithTx(tx sqldb.CommitRollbacker) (userbus.Storer, error) {
	return s, nil
}

func (s *memStorer) Create(ctx context.Context, usr userbus.User) error {
	tenantID, err := s.scope(ctx)
	if err != nil {
		return err
	}

	rows, exists := s.users[tenantID]
	if !exists {
		rows = make(map[uuid.UUID]userbus.User)
		s.users[tenantID] = rows
	}

	for _, other := range rows {
		if other.Username.Equal(usr.Username) {
			return userbus.ErrUniqueUsername
		}
	}

	usr.TenantID = tenantID
	rows[usr.ID] = usr

	return nil
}

func (s *memStorer) Update(ctx context.Context, usr userbus.User) error {
	tenantID, err := s.scope(ctx)
	if err != nil {
		return err
	}

	if _, exists := s.users[tenantID][usr.ID]; !exists {
		return userbus.ErrNotFound
	}

	usr.TenantID = tenantID
	s.users[tenantID][usr.ID] = usr

	return nil
}

func (s *memStorer) Delete(ctx context.Context, usr userbus.User) error {
	tenantID, err := s.scope(ctx)
	if err != nil {
		return err
	}

	delete(s.users[tenantID], usr.ID)

	return nil
}

func (s *memStorer) QueryByID(ctx context.Context, userID uuid.UUID) (userbus.User, error) {
	tenantID, err := s.scope(ctx)
	if err != nil {
		return userbus.User{}, err
	}

	usr, exists := s.users[tenantID][userID]
	if !exists {
		return userbus.User{}, userbus.ErrNotFound
	}

	return usr, nil
}

func (s *memStorer) QueryByUsername(ctx context.Context, uname username.Username) (userbus.User, error) {
	tenantID, err := s.scope(ctx)
	if err != nil {
		return userbus.User{}, err
	}

	for _, usr := range s.users[tenantID] {
		if usr.Username.Equal(uname) {
			return usr, nil
		}
	}

	return userbus.User{}, userbus.ErrNotFound
}
