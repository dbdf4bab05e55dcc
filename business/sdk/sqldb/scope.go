package sqldb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rhettharrison/platform-api/business/sdk/tenant"
	"github.com/rhettharrison/platform-api/foundation/logger"
)

// Set of errors for tenant scope enforcement. A scope violation means the
// request wiring is broken; it is never treated as a normal miss.
var (
	ErrScopeNotAttached   = errors.New("no tenant scope attached to this storage session")
	ErrScopeMismatch      = errors.New("tenant scope does not match the bound tenant context")
	ErrInvalidScope       = errors.New("tenant scope identity is not valid")
	ErrQueryNotScoped     = errors.New("query does not declare the tenant predicate")
	ErrQueryNotRegistered = errors.New("query is not registered as tenant scoped")
)

type scopeKey int

const scopeCtxKey scopeKey = 1

// AttachScope captures the tenant identity for the request's storage
// session. The resolution stage calls this once per request, immediately
// after binding the tenant context. Every scoped store operation for the
// rest of the request runs against this identity.
func AttachScope(ctx context.Context, tenantID uuid.UUID) (context.Context, error) {
	if tenantID == uuid.Nil {
		return ctx, ErrInvalidScope
	}

	return context.WithValue(ctx, scopeCtxKey, tenantID), nil
}

// ScopeTenantID returns the tenant identity attached to the session.
func ScopeTenantID(ctx context.Context) (uuid.UUID, error) {
	v, ok := ctx.Value(scopeCtxKey).(uuid.UUID)
	if !ok || v == uuid.Nil {
		return uuid.Nil, ErrScopeNotAttached
	}

	return v, nil
}

// checkScope validates the session scope still agrees with the bound tenant
// context and returns the tenant to enforce. A session whose scope has
// drifted from the context refuses to serve rather than falling back to
// unrestricted access.
func checkScope(ctx context.Context) (uuid.UUID, error) {
	scopeID, err := ScopeTenantID(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	currentID, err := tenant.Current(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("scoped session: %w", err)
	}

	if scopeID != currentID {
		return uuid.Nil, ErrScopeMismatch
	}

	return scopeID, nil
}

// =============================================================================

// TenantStamper is implemented by the named-parameter models of
// tenant-owned entities. The scoped helpers stamp the session tenant into
// the model before execution, so a caller can neither omit the tenant nor
// supply a foreign one.
type TenantStamper interface {
	StampTenantID(tenantID uuid.UUID)
}

// Scoped carries the tenant column for tenant-owned db models. Embed it in
// the model used as named parameters for scoped queries.
type Scoped struct {
	TenantID uuid.UUID `db:"tenant_id"`
}

// StampTenantID implements the TenantStamper interface.
func (s *Scoped) StampTenantID(tenantID uuid.UUID) {
	s.TenantID = tenantID
}

// =============================================================================

// scopedQueries is the registry of every SQL statement that touches a
// tenant-owned table. Stores register their statements at package init so
// the startup guardrail can prove the predicate is declared before the
// service accepts traffic.
var scopedQueries = struct {
	mu sync.RWMutex
	m  map[string]string
}{m: make(map[string]string)}

// RegisterScopedQuery records a statement against a tenant-owned table.
// The name must be unique across the process.
func RegisterScopedQuery(name string, query string) string {
	scopedQueries.mu.Lock()
	defer scopedQueries.mu.Unlock()

	if _, exists := scopedQueries.m[name]; exists {
		panic(fmt.Sprintf("scoped query %q registered twice", name))
	}
	scopedQueries.m[name] = query

	return query
}

// ValidateScopedQueries verifies the tenant predicate mechanism at process
// start: at least one scoped statement is registered and every one of them
// declares the tenant_id parameter correctly. Any failure must abort
// startup.
func ValidateScopedQueries() error {
	scopedQueries.mu.RLock()
	defer scopedQueries.mu.RUnlock()

	if len(scopedQueries.m) == 0 {
		return errors.New("no tenant scoped queries registered: scoping enforcement is not wired")
	}

	for name, query := range scopedQueries.m {
		if err := validateScopedQuery(query); err != nil {
			return fmt.Errorf("scoped query %q: %w", name, err)
		}
	}

	return nil
}

// validateScopedQuery checks a single statement declares the tenant
// predicate and cannot rewrite the tenant column.
func validateScopedQuery(query string) error {
	q := strings.ToLower(query)

	if !strings.Contains(q, ":tenant_id") {
		return ErrQueryNotScoped
	}

	switch {
	case strings.HasPrefix(strings.TrimSpace(q), "insert"):
		// Inserts stamp the column through the named parameter.

	case strings.HasPrefix(strings.TrimSpace(q), "update"):
		if !strings.Contains(q, "tenant_id = :tenant_id") {
			return ErrQueryNotScoped
		}
		// The tenant column is immutable: it may appear only in the WHERE
		// clause, never in the SET list.
		set := q[strings.Index(q, "set"):]
		if whereAt := strings.Index(set, "where"); whereAt != -1 {
			set = set[:whereAt]
		}
		if strings.Contains(set, "tenant_id") {
			return errors.New("update statement modifies tenant_id")
		}

	default:
		if !strings.Contains(q, "tenant_id = :tenant_id") {
			return ErrQueryNotScoped
		}
	}

	return nil
}

func lookupScopedQuery(query string) error {
	scopedQueries.mu.RLock()
	defer scopedQueries.mu.RUnlock()

	for _, q := range scopedQueries.m {
		if q == query {
			return nil
		}
	}

	return ErrQueryNotRegistered
}

// =============================================================================

// ScopedNamedExecContext executes a CUD operation against a tenant-owned
// table. The statement must be registered and carry the tenant predicate,
// and the data model is stamped with the session tenant before execution.
func ScopedNamedExecContext(ctx context.Context, log *logger.Logger, db sqlx.ExtContext, query string, data TenantStamper) error {
	tenantID, err := prepareScoped(ctx, query, data)
	if err != nil {
		return err
	}

	log.Debugc(ctx, 4, "database.ScopedNamedExecContext", "tenant_id", tenantID)

	return NamedExecContext(ctx, log, db, query, data)
}

// ScopedNamedQueryStruct executes a single-row query against a tenant-owned
// table, restricted to the session tenant's rows.
func ScopedNamedQueryStruct(ctx context.Context, log *logger.Logger, db sqlx.ExtContext, query string, data TenantStamper, dest any) error {
	tenantID, err := prepareScoped(ctx, query, data)
	if err != nil {
		return err
	}

	log.Debugc(ctx, 4, "database.ScopedNamedQueryStruct", "tenant_id", tenantID)

	return NamedQueryStruct(ctx, log, db, query, data, dest)
}

// ScopedNamedQuerySlice executes a multi-row query against a tenant-owned
// table, restricted to the session tenant's rows.
func ScopedNamedQuerySlice[T any](ctx context.Context, log *logger.Logger, db sqlx.ExtContext, query string, data TenantStamper, dest *[]T) error {
	tenantID, err := prepareScoped(ctx, query, data)
	if err != nil {
		return err
	}

	log.Debugc(ctx, 4, "database.ScopedNamedQuerySlice", "tenant_id", tenantID)

	return NamedQuerySlice(ctx, log, db, query, data, dest)
}

func prepareScoped(ctx context.Context, query string, data TenantStamper) (uuid.UUID, error) {
	tenantID, err := checkScope(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	if err := lookupScopedQuery(query); err != nil {
		return uuid.Nil, err
	}

	if err := validateScopedQuery(query); err != nil {
		return uuid.Nil, err
	}

	data.StampTenantID(tenantID)

	return tenantID, nil
}
