package tenantdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/business/domain/tenantbus"
	"github.com/rhettharrison/platform-api/business/types/hostname"
)

// tenantDB represents the structure of the tenant table in the database.
type tenantDB struct {
	ID        uuid.UUID `db:"tenant_id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	Enabled   bool      `db:"enabled"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func toDBTenant(bus tenantbus.Tenant) tenantDB {
	return tenantDB{
		ID:        bus.ID,
		Name:      bus.Name,
		Slug:      bus.Slug,
		Enabled:   bus.Enabled,
		CreatedAt: bus.CreatedAt,
		UpdatedAt: bus.UpdatedAt,
	}
}

func toBusTenant(db tenantDB) tenantbus.Tenant {
	return tenantbus.Tenant{
		ID:        db.ID,
		Name:      db.Name,
		Slug:      db.Slug,
		Enabled:   db.Enabled,
		CreatedAt: db.CreatedAt,
		UpdatedAt: db.UpdatedAt,
	}
}

// domainBindingDB represents the structure of the tenant_domain table in
// the database.
type domainBindingDB struct {
	ID        uuid.UUID `db:"domain_id"`
	TenantID  uuid.UUID `db:"tenant_id"`
	Domain    string    `db:"domain"`
	IsPrimary bool      `db:"is_primary"`
	CreatedAt time.Time `db:"created_at"`
}

func toDBDomainBinding(bus tenantbus.DomainBinding) domainBindingDB {
	return domainBindingDB{
		ID:        bus.ID,
		TenantID:  bus.TenantID,
		Domain:    bus.Domain.String(),
		IsPrimary: bus.IsPrimary,
		CreatedAt: bus.CreatedAt,
	}
}

func toBusDomainBinding(db domainBindingDB) (tenantbus.DomainBinding, error) {
	domain, err := hostname.Parse(db.Domain)
	if err != nil {
		return tenantbus.DomainBinding{}, err
	}

	return tenantbus.DomainBinding{
		ID:        db.ID,
		TenantID:  db.TenantID,
		Domain:    domain,
		IsPrimary: db.IsPrimary,
		CreatedAt: db.CreatedAt,
	}, nil
}

func toBusDomainBindings(dbs []domainBindingDB) ([]tenantbus.DomainBinding, error) {
	bus := make([]tenantbus.DomainBinding, len(dbs))
	for i, db := range dbs {
		var err error
		bus[i], err = toBusDomainBinding(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}
