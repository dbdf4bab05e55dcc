package userbus

import (
	"time"

	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/business/types/password"
	"github.com/rhettharrison/platform-api/business/types/role"
	"github.com/rhettharrison/platform-api/business/types/username"
)

// User represents an administrative user of a tenant. Users are tenant
// owned: the same username can exist under different tenants.
type User struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Name         string
	Username     username.Username
	Roles        []role.Role
	PasswordHash []byte
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser contains information needed to create a new user.
type NewUser struct {
	Name     string
	Username username.Username
	Roles    []role.Role
	Password password.Password
}

// UpdateUser contains information needed to update a user.
type UpdateUser struct {
	Name     *string
	Roles    []role.Role
	Password *password.Password
	Enabled  *bool
}
