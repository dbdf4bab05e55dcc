// Package tenantbus provides business access to tenants and the host
// resolution strategy that maps an incoming request to one of them.
package tenantbus

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/business/sdk/sqldb"
	"github.com/rhettharrison/platform-api/business/types/hostname"
	"github.com/rhettharrison/platform-api/foundation/logger"
	"github.com/rhettharrison/platform-api/foundation/otel"
)

var (
	ErrNotFound    = errors.New("tenant not found")
	ErrUniqueSlug  = errors.New("slug is not unique")
	ErrUniqueHost  = errors.New("domain is already bound")
	ErrInvalidSlug = errors.New("invalid slug")
)

// DefaultSlug is the tenant served on localhost when dev mode is enabled.
const DefaultSlug = "default"

var slugRegEx = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

// Storer defines the behavior required by the tenantbus to interact with
// the database. Tenants are platform level rows, not tenant owned data,
// so this store does not participate in scoped querying.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)

	// Administrative
	Create(ctx context.Context, t Tenant) error
	Update(ctx context.Context, t Tenant) error
	Delete(ctx context.Context, t Tenant) error
	QueryByID(ctx context.Context, tenantID uuid.UUID) (Tenant, error)
	QueryBySlug(ctx context.Context, slug string) (Tenant, error)

	// Resolution
	QueryIDByDomain(ctx context.Context, domain hostname.Hostname) (uuid.UUID, error)
	QueryIDBySlug(ctx context.Context, slug string) (uuid.UUID, error)

	CreateDomainBinding(ctx context.Context, db DomainBinding) error
	QueryDomainBindings(ctx context.Context, tenantID uuid.UUID) ([]DomainBinding, error)
}

// Core manages the set of APIs for tenant access.
type Core struct {
	storer  Storer
	log     *logger.Logger
	devMode bool
}

// NewCore constructs a core for tenant api access. When devMode is true
// requests for localhost resolve to the tenant with the default slug.
func NewCore(log *logger.Logger, storer Storer, devMode bool) *Core {
	return &Core{
		storer:  storer,
		log:     log,
		devMode: devMode,
	}
}

// NewWithTx constructs a new Core value replacing the Storer
// value with a Storer value that is currently inside a transaction.
func (c *Core) NewWithTx(tx sqldb.CommitRollbacker) (*Core, error) {
	storer, err := c.storer.NewWithTx(tx)
	if err != nil {
		return nil, fmt.Errorf("newWithTx: %w", err)
	}

	return NewCore(c.log, storer, c.devMode), nil
}

// Resolve maps a normalized host to the tenant that serves it. The
// strategies run in a fixed order and the first match wins:
//
//  1. an explicit domain binding for the host;
//  2. in dev mode, localhost resolves to the default slug;
//  3. a host with at least three labels resolves by its first label.
//
// A host no strategy can claim resolves to ErrNotFound. Disabled tenants
// never resolve.
func (c *Core) Resolve(ctx context.Context, host hostname.Hostname) (uuid.UUID, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.resolve")
	defer span.End()

	id, err := c.storer.QueryIDByDomain(ctx, host)
	switch {
	case err == nil:
		return id, nil
	case !errors.Is(err, ErrNotFound):
		return uuid.Nil, fmt.Errorf("queryIDByDomain[%s]: %w", host, err)
	}

	if c.devMode && host.String() == "localhost" {
		id, err := c.storer.QueryIDBySlug(ctx, DefaultSlug)
		switch {
		case err == nil:
			return id, nil
		case !errors.Is(err, ErrNotFound):
			return uuid.Nil, fmt.Errorf("queryIDBySlug[%s]: %w", DefaultSlug, err)
		}
	}

	if labels := host.Labels(); len(labels) >= 3 {
		slug := labels[0]

		id, err := c.storer.QueryIDBySlug(ctx, slug)
		switch {
		case err == nil:
			return id, nil
		case !errors.Is(err, ErrNotFound):
			return uuid.Nil, fmt.Errorf("queryIDBySlug[%s]: %w", slug, err)
		}
	}

	return uuid.Nil, ErrNotFound
}

// Create adds a new tenant to the system.
func (c *Core) Create(ctx context.Context, nt NewTenant) (Tenant, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.create")
	defer span.End()

	if !slugRegEx.MatchString(nt.Slug) {
		return Tenant{}, fmt.Errorf("slug[%s]: %w", nt.Slug, ErrInvalidSlug)
	}

	now := time.Now()

	t := Tenant{
		ID:        uuid.New(),
		Name:      nt.Name,
		Slug:      nt.Slug,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storer.Create(ctx, t); err != nil {
		return Tenant{}, fmt.Errorf("create: %w", err)
	}

	return t, nil
}

// Update modifies data about a tenant. The slug is fixed at creation and
// cannot be changed.
func (c *Core) Update(ctx context.Context, t Tenant, ut UpdateTenant) (Tenant, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.update")
	defer span.End()

	if ut.Name != nil {
		t.Name = *ut.Name
	}

	if ut.Enabled != nil {
		t.Enabled = *ut.Enabled
	}

	t.UpdatedAt = time.Now()

	if err := c.storer.Update(ctx, t); err != nil {
		return Tenant{}, fmt.Errorf("update: %w", err)
	}

	return t, nil
}

// Delete removes the specified tenant from the system.
func (c *Core) Delete(ctx context.Context, t Tenant) error {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.delete")
	defer span.End()

	if err := c.storer.Delete(ctx, t); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}

// QueryByID finds the tenant by the specified ID.
func (c *Core) QueryByID(ctx context.Context, tenantID uuid.UUID) (Tenant, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.queryByID")
	defer span.End()

	tnt, err := c.storer.QueryByID(ctx, tenantID)
	if err != nil {
		return Tenant{}, fmt.Errorf("query: tenantID[%s]: %w", tenantID, err)
	}

	return tnt, nil
}

// QueryBySlug finds the tenant by the specified slug.
func (c *Core) QueryBySlug(ctx context.Context, slug string) (Tenant, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.queryBySlug")
	defer span.End()

	tnt, err := c.storer.QueryBySlug(ctx, slug)
	if err != nil {
		return Tenant{}, fmt.Errorf("query: slug[%s]: %w", slug, err)
	}

	return tnt, nil
}

// BindDomain binds a fully qualified domain to the specified tenant.
func (c *Core) BindDomain(ctx context.Context, nb NewDomainBinding) (DomainBinding, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.bindDomain")
	defer span.End()

	db := DomainBinding{
		ID:        uuid.New(),
		TenantID:  nb.TenantID,
		Domain:    nb.Domain,
		IsPrimary: nb.IsPrimary,
		CreatedAt: time.Now(),
	}

	if err := c.storer.CreateDomainBinding(ctx, db); err != nil {
		return DomainBinding{}, fmt.Errorf("createDomainBinding: %w", err)
	}

	return db, nil
}

// QueryDomainBindings returns the domain bindings for the specified tenant.
func (c *Core) QueryDomainBindings(ctx context.Context, tenantID uuid.UUID) ([]DomainBinding, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.queryDomainBindings")
	defer span.End()

	dbs, err := c.storer.QueryDomainBindings(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("queryDomainBindings: tenantID[%s]: %w", tenantID, err)
	}

	return dbs, nil
}
