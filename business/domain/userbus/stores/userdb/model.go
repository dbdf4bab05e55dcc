package userdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/business/domain/userbus"
	"github.com/rhettharrison/platform-api/business/sdk/sqldb"
	"github.com/rhettharrison/platform-api/business/types/role"
	"github.com/rhettharrison/platform-api/business/types/username"
)

// userDB represents the structure of the app_user table in the database.
// The embedded Scoped carries the tenant column and is stamped by the
// scoped helpers.
type userDB struct {
	sqldb.Scoped
	ID           uuid.UUID `db:"user_id"`
	Name         string    `db:"name"`
	Username     string    `db:"username"`
	Roles        string    `db:"roles"`
	PasswordHash []byte    `db:"password_hash"`
	Enabled      bool      `db:"enabled"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func toDBUser(bus userbus.User) userDB {
	return userDB{
		Scoped:       sqldb.Scoped{TenantID: bus.TenantID},
		ID:           bus.ID,
		Name:         bus.Name,
		Username:     bus.Username.String(),
		Roles:        rolesToCSV(bus.Roles),
		PasswordHash: bus.PasswordHash,
		Enabled:      bus.Enabled,
		CreatedAt:    bus.CreatedAt,
		UpdatedAt:    bus.UpdatedAt,
	}
}

func toBusUser(db userDB) (userbus.User, error) {
	uname, err := username.Parse(db.Username)
	if err != nil {
		return userbus.User{}, err
	}

	roles, err := role.ParseCSV(db.Roles)
	if err != nil {
		return userbus.User{}, err
	}

	return userbus.User{
		ID:           db.ID,
		TenantID:     db.TenantID,
		Name:         db.Name,
		Username:     uname,
		Roles:        roles,
		PasswordHash: db.PasswordHash,
		Enabled:      db.Enabled,
		CreatedAt:    db.CreatedAt,
		UpdatedAt:    db.UpdatedAt,
	}, nil
}

func rolesToCSV(roles []role.Role) string {
	csv := ""
	for i, r := range roles {
		if i > 0 {
			csv += ","
		}
		csv += r.String()
	}

	return csv
}
