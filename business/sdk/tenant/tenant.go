// Package tenant maintains the tenant identity bound to a single request.
// A request carries at most one tenant for its entire lifetime; any code
// path that reads an unbound or double-bound context is a programming error
// and fails loudly rather than running as "no tenant".
package tenant

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Set of errors for tenant context violations. These represent broken
// request wiring, not user input, and are never absorbed.
var (
	ErrUnbound         = errors.New("no tenant bound to this request context")
	ErrAlreadyBound    = errors.New("tenant already bound to this request context")
	ErrInvalidIdentity = errors.New("tenant identity is not valid")
)

type ctxKey int

const holderKey ctxKey = 1

// holder carries the single tenant binding for one request. It is mutable
// so the resolution stage's deferred Clear is visible through every context
// derived from the request context.
type holder struct {
	mu    sync.Mutex
	id    uuid.UUID
	bound bool
}

// WithHolder installs a fresh, unbound tenant slot into the context. The
// resolution stage calls this once per request; nothing outside that stage
// and its tests should need to.
func WithHolder(ctx context.Context) context.Context {
	return context.WithValue(ctx, holderKey, &holder{})
}

// Bind associates the tenant identity with the current request context.
// Binding a second identity without an intervening Clear fails; an existing
// binding is never silently overwritten.
func Bind(ctx context.Context, tenantID uuid.UUID) error {
	if tenantID == uuid.Nil {
		return ErrInvalidIdentity
	}

	h, ok := ctx.Value(holderKey).(*holder)
	if !ok {
		return ErrUnbound
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.bound {
		return ErrAlreadyBound
	}

	h.id = tenantID
	h.bound = true

	return nil
}

// Current returns the tenant bound to this request. It fails with ErrUnbound
// when no tenant is bound, which is the fail-fast guarantee that no code can
// silently execute without a tenant.
func Current(ctx context.Context) (uuid.UUID, error) {
	h, ok := ctx.Value(holderKey).(*holder)
	if !ok {
		return uuid.Nil, ErrUnbound
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.bound {
		return uuid.Nil, ErrUnbound
	}

	return h.id, nil
}

// CurrentOrNone returns the bound tenant or uuid.Nil when none exists. Only
// code that must tolerate absence, such as diagnostics and the credential
// binding check, should use this form.
func CurrentOrNone(ctx context.Context) uuid.UUID {
	h, ok := ctx.Value(holderKey).(*holder)
	if !ok {
		return uuid.Nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.bound {
		return uuid.Nil
	}

	return h.id
}

// Clear removes any binding from the request context. It is idempotent and
// safe to call when nothing is bound. The resolution stage defers this on
// every exit path so a reused execution unit never observes a stale tenant.
func Clear(ctx context.Context) {
	h, ok := ctx.Value(holderKey).(*holder)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.id = uuid.Nil
	h.bound = false
}
