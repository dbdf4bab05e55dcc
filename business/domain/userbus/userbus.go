// Package userbus provides business access to tenant administrative
// users. Every store operation runs inside the tenant scope installed by
// the request's resolution stage.
package userbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/business/sdk/sqldb"
	"github.com/rhettharrison/platform-api/business/sdk/tenant"
	"github.com/rhettharrison/platform-api/business/types/password"
	"github.com/rhettharrison/platform-api/business/types/username"
	"github.com/rhettharrison/platform-api/foundation/logger"
	"github.com/rhettharrison/platform-api/foundation/otel"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound              = errors.New("user not found")
	ErrUniqueUsername        = errors.New("username is not unique")
	ErrAuthenticationFailure = errors.New("authentication failed")
)

// Storer defines the behavior required by the userbus to interact with
// the database. Implementations must enforce the session tenant scope on
// every operation.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	Create(ctx context.Context, usr User) error
	Update(ctx context.Context, usr User) error
	Delete(ctx context.Context, usr User) error
	QueryByID(ctx context.Context, userID uuid.UUID) (User, error)
	QueryByUsername(ctx context.Context, uname username.Username) (User, error)
}

// Core manages the set of APIs for user access.
type Core struct {
	storer Storer
	log    *logger.Logger
}

// NewCore constructs a core for user api access.
func NewCore(log *logger.Logger, storer Storer) *Core {
	return &Core{
		storer: storer,
		log:    log,
	}
}

// NewWithTx constructs a new Core value replacing the Storer
// value with a Storer value that is currently inside a transaction.
func (c *Core) NewWithTx(tx sqldb.CommitRollbacker) (*Core, error) {
	storer, err := c.storer.NewWithTx(tx)
	if err != nil {
		return nil, fmt.Errorf("newWithTx: %w", err)
	}

	return NewCore(c.log, storer), nil
}

// Create adds a new user under the bound tenant.
func (c *Core) Create(ctx context.Context, nu NewUser) (User, error) {
	ctx, span := otel.AddSpan(ctx, "business.userbus.create")
	defer span.End()

	tenantID, err := tenant.Current(ctx)
	if err != nil {
		return User{}, fmt.Errorf("create: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password.String()), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("generatefrompassword: %w", err)
	}

	now := time.Now()

	usr := User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Name:         nu.Name,
		Username:     nu.Username,
		Roles:        nu.Roles,
		PasswordHash: hash,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := c.storer.Create(ctx, usr); err != nil {
		return User{}, fmt.Errorf("create: %w", err)
	}

	return usr, nil
}

// Update modifies data about a user. The owning tenant is fixed at
// creation and is not part of the update surface.
func (c *Core) Update(ctx context.Context, usr User, uu UpdateUser) (User, error) {
	ctx, span := otel.AddSpan(ctx, "business.userbus.update")
	defer span.End()

	if uu.Name != nil {
		usr.Name = *uu.Name
	}

	if uu.Roles != nil {
		usr.Roles = uu.Roles
	}

	if uu.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(uu.Password.String()), bcrypt.DefaultCost)
		if err != nil {
			return User{}, fmt.Errorf("generatefrompassword: %w", err)
		}
		usr.PasswordHash = hash
	}

	if uu.Enabled != nil {
		usr.Enabled = *uu.Enabled
	}

	usr.UpdatedAt = time.Now()

	if err := c.storer.Update(ctx, usr); err != nil {
		return User{}, fmt.Errorf("update: %w", err)
	}

	return usr, nil
}

// Delete removes the specified user.
func (c *Core) Delete(ctx context.Context, usr User) error {
	ctx, span := otel.AddSpan(ctx, "business.userbus.delete")
	defer span.End()

	if err := c.storer.Delete(ctx, usr); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}

// QueryByID finds the user by the specified ID within the bound tenant.
func (c *Core) QueryByID(ctx context.Context, userID uuid.UUID) (User, error) {
	ctx, span := otel.AddSpan(ctx, "business.userbus.queryByID")
	defer span.End()

	usr, err := c.storer.QueryByID(ctx, userID)
	if err != nil {
		return User{}, fmt.Errorf("query: userID[%s]: %w", userID, err)
	}

	return usr, nil
}

// QueryByUsername finds the user by username within the bound tenant.
func (c *Core) QueryByUsername(ctx context.Context, uname username.Username) (User, error) {
	ctx, span := otel.AddSpan(ctx, "business.userbus.queryByUsername")
	defer span.End()

	usr, err := c.storer.QueryByUsername(ctx, uname)
	if err != nil {
		return User{}, fmt.Errorf("query: username[%s]: %w", uname, err)
	}

	return usr, nil
}

// Authenticate finds a user by username within the bound tenant and
// verifies the password. Disabled users and unknown usernames fail the
// same way a wrong password does.
func (c *Core) Authenticate(ctx context.Context, uname username.Username, pass password.Password) (User, error) {
	ctx, span := otel.AddSpan(ctx, "business.userbus.authenticate")
	defer span.End()

	usr, err := c.storer.QueryByUsername(ctx, uname)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrAuthenticationFailure
		}
		return User{}, fmt.Errorf("query: username[%s]: %w", uname, err)
	}

	if !usr.Enabled {
		return User{}, ErrAuthenticationFailure
	}

	if err := bcrypt.CompareHashAndPassword(usr.PasswordHash, []byte(pass.String())); err != nil {
		return User{}, ErrAuthenticationFailure
	}

	return usr, nil
}
