// Package usercache contains user related CRUD functionality with a
// read-through cache in front of the database store. Cache keys are
// prefixed with the session tenant so one tenant's lookups can never
// serve another tenant's user.
package usercache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/business/domain/userbus"
	"github.com/rhettharrison/platform-api/business/sdk/sqldb"
	"github.com/rhettharrison/platform-api/business/types/username"
	"github.com/rhettharrison/platform-api/foundation/logger"
	"github.com/viccon/sturdyc"
)

// Store manages the set of APIs for user data and caching.
type Store struct {
	log    *logger.Logger
	storer userbus.Storer
	cache  *sturdyc.Client[userbus.User]
}

// NewStore constructs the api for data and caching access.
func NewStore(log *logger.Logger, storer userbus.Storer, ttl time.Duration) *Store {
	const capacity = 10000
	const numShards = 10
	const evictionPercentage = 10

	return &Store{
		log:    log,
		storer: storer,
		cache:  sturdyc.New[userbus.User](capacity, numShards, ttl, evictionPercentage),
	}
}

// NewWithTx constructs a new Store value replacing the storer value with a
// storer value that is currently inside a transaction. The cache is shared.
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (userbus.Storer, error) {
	storer, err := s.storer.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	store := Store{
		log:    s.log,
		storer: storer,
		cache:  s.cache,
	}

	return &store, nil
}

// Create inserts a new user into the database.
func (s *Store) Create(ctx context.Context, usr userbus.User) error {
	if err := s.storer.Create(ctx, usr); err != nil {
		return err
	}

	s.writeCache(usr)

	return nil
}

// Update replaces a user document in the database.
func (s *Store) Update(ctx context.Context, usr userbus.User) error {
	if err := s.storer.Update(ctx, usr); err != nil {
		return err
	}

	s.writeCache(usr)

	return nil
}

// Delete removes a user from the database.
func (s *Store) Delete(ctx context.Context, usr userbus.User) error {
	if err := s.storer.Delete(ctx, usr); err != nil {
		return err
	}

	s.deleteCache(usr)

	return nil
}

// QueryByID gets the specified user from the database, restricted to the
// session tenant's rows.
func (s *Store) QueryByID(ctx context.Context, userID uuid.UUID) (userbus.User, error) {
	tenantID, err := sqldb.ScopeTenantID(ctx)
	if err != nil {
		return userbus.User{}, err
	}

	if usr, ok := s.readCache(idKey(tenantID, userID)); ok {
		return usr, nil
	}

	usr, err := s.storer.QueryByID(ctx, userID)
	if err != nil {
		return userbus.User{}, err
	}

	s.writeCache(usr)

	return usr, nil
}

// QueryByUsername gets the user with the specified username, restricted to
// the session tenant's rows.
func (s *Store) QueryByUsername(ctx context.Context, uname username.Username) (userbus.User, error) {
	tenantID, err := sqldb.ScopeTenantID(ctx)
	if err != nil {
		return userbus.User{}, err
	}

	if usr, ok := s.readCache(usernameKey(tenantID, uname)); ok {
		return usr, nil
	}

	usr, err := s.storer.QueryByUsername(ctx, uname)
	if err != nil {
		return userbus.User{}, err
	}

	s.writeCache(usr)

	return usr, nil
}

// =============================================================================

func idKey(tenantID uuid.UUID, userID uuid.UUID) string {
	return fmt.Sprintf("%s:id:%s", tenantID, userID)
}

func usernameKey(tenantID uuid.UUID, uname username.Username) string {
	return fmt.Sprintf("%s:username:%s", tenantID, uname)
}

// readCache performs a safe search in the cache for the specified key.
func (s *Store) readCache(key string) (userbus.User, bool) {
	usr, exists := s.cache.Get(key)
	if !exists {
		return userbus.User{}, false
	}

	return usr, true
}

// writeCache performs a safe write to the cache under both the id and
// username keys.
func (s *Store) writeCache(usr userbus.User) {
	s.cache.Set(idKey(usr.TenantID, usr.ID), usr)
	s.cache.Set(usernameKey(usr.TenantID, usr.Username), usr)
}

// deleteCache performs a safe removal from the cache.
func (s *Store) deleteCache(usr userbus.User) {
	s.cache.Delete(idKey(usr.TenantID, usr.ID))
	s.cache.Delete(usernameKey(usr.TenantID, usr.Username))
}
