// Package userdb contains user related CRUD functionality. The app_user
// table is tenant owned, so every statement is registered as scoped and
// executed through the scoped helpers.
package userdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rhettharrison/platform-api/business/domain/userbus"
	"github.com/rhettharrison/platform-api/business/sdk/sqldb"
	"github.com/rhettharrison/platform-api/business/types/username"
	"github.com/rhettharrison/platform-api/foundation/logger"
)

var qCreate = sqldb.RegisterScopedQuery("userdb.create", `
	INSERT INTO "public"."app_user"
		(user_id, tenant_id, name, username, roles, password_hash, enabled, created_at, updated_at)
	VALUES
		(:user_id, :tenant_id, :name, :username, :roles, :password_hash, :enabled, :created_at, :updated_at)`)

var qUpdate = sqldb.RegisterScopedQuery("userdb.update", `
	UPDATE
		"public"."app_user"
	SET
		name = :name,
		roles = :roles,
		password_hash = :password_hash,
		enabled = :enabled,
		updated_at = :updated_at
	WHERE
		user_id = :user_id AND tenant_id = :tenant_id`)

var qDelete = sqldb.RegisterScopedQuery("userdb.delete", `
	DELETE FROM
		"public"."app_user"
	WHERE
		user_id = :user_id AND tenant_id = :tenant_id`)

var qQueryByID = sqldb.RegisterScopedQuery("userdb.querybyid", `
	SELECT
		user_id, tenant_id, name, username, roles, password_hash, enabled, created_at, updated_at
	FROM
		"public"."app_user"
	WHERE
		user_id = :user_id AND tenant_id = :tenant_id`)

var qQueryByUsername = sqldb.RegisterScopedQuery("userdb.querybyusername", `
	SELECT
		user_id, tenant_id, name, username, roles, password_hash, enabled, created_at, updated_at
	FROM
		"public"."app_user"
	WHERE
		username = :username AND tenant_id = :tenant_id`)

// Store manages the set of APIs for user database access.
type Store struct {
	log *logger.Logger
	db  sqlx.ExtContext
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, db *sqlx.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// NewWithTx constructs a new Store value replacing the sqlx DB
// value with a sqlx DB value that is currently inside a transaction.
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (userbus.Storer, error) {
	ec, err := sqldb.GetExtContext(tx)
	if err != nil {
		return nil, err
	}

	store := Store{
		log: s.log,
		db:  ec,
	}

	return &store, nil
}

// Create inserts a new user into the database. The tenant column is
// stamped with the session tenant by the scoped helper.
func (s *Store) Create(ctx context.Context, usr userbus.User) error {
	dbUsr := toDBUser(usr)

	if err := sqldb.ScopedNamedExecContext(ctx, s.log, s.db, qCreate, &dbUsr); err != nil {
		var dupErr sqldb.ErrDBDuplicatedEntry
		if errors.As(err, &dupErr) {
			return fmt.Errorf("namedexeccontext: %w", userbus.ErrUniqueUsername)
		}
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Update replaces a user document in the database. The tenant column is
// not part of the SET list: ownership never moves.
func (s *Store) Update(ctx context.Context, usr userbus.User) error {
	dbUsr := toDBUser(usr)

	if err := sqldb.ScopedNamedExecContext(ctx, s.log, s.db, qUpdate, &dbUsr); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Delete removes a user from the database.
func (s *Store) Delete(ctx context.Context, usr userbus.User) error {
	dbUsr := toDBUser(usr)

	if err := sqldb.ScopedNamedExecContext(ctx, s.log, s.db, qDelete, &dbUsr); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryByID gets the specified user from the database, restricted to the
// session tenant's rows.
func (s *Store) QueryByID(ctx context.Context, userID uuid.UUID) (userbus.User, error) {
	data := struct {
		sqldb.Scoped
		ID string `db:"user_id"`
	}{
		ID: userID.String(),
	}

	var dbUsr userDB
	if err := sqldb.ScopedNamedQueryStruct(ctx, s.log, s.db, qQueryByID, &data, &dbUsr); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return userbus.User{}, fmt.Errorf("db: %w", userbus.ErrNotFound)
		}
		return userbus.User{}, fmt.Errorf("db: %w", err)
	}

	return toBusUser(dbUsr)
}

// QueryByUsername gets the user with the specified username, restricted to
// the session tenant's rows.
func (s *Store) QueryByUsername(ctx context.Context, uname username.Username) (userbus.User, error) {
	data := struct {
		sqldb.Scoped
		Username string `db:"username"`
	}{
		Username: uname.String(),
	}

	var dbUsr userDB
	if err := sqldb.ScopedNamedQueryStruct(ctx, s.log, s.db, qQueryByUsername, &data, &dbUsr); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return userbus.User{}, fmt.Errorf("db: %w", userbus.ErrNotFound)
		}
		return userbus.User{}, fmt.Errorf("db: %w", err)
	}

	return toBusUser(dbUsr)
}
