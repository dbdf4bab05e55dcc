package tenantbus

import (
	"time"

	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/business/types/hostname"
)

// Tenant represents a client organization or workspace in the system.
type Tenant struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DomainBinding maps a fully qualified domain to the tenant it serves.
// Bindings take precedence over every other resolution strategy.
type DomainBinding struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Domain    hostname.Hostname
	IsPrimary bool
	CreatedAt time.Time
}

// NewTenant contains information needed to create a new tenant.
type NewTenant struct {
	Name string
	Slug string
}

// UpdateTenant contains information needed to update a tenant.
type UpdateTenant struct {
	Name    *string
	Enabled *bool
}

// NewDomainBinding contains information needed to bind a domain to a
// tenant. IsPrimary marks the binding as the tenant's canonical domain,
// which has no effect on resolution.
type NewDomainBinding struct {
	TenantID  uuid.UUID
	Domain    hostname.Hostname
	IsPrimary bool
}
