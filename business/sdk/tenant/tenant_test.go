package tenant_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/business/sdk/tenant"
	"github.com/stretchr/testify/require"
)

func Test_BindCurrent(t *testing.T) {
	ctx := tenant.WithHolder(context.Background())
	tenantID := uuid.New()

	require.NoError(t, tenant.Bind(ctx, tenantID))

	got, err := tenant.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, tenantID, got)
	require.Equal(t, tenantID, tenant.CurrentOrNone(ctx))
}

func Test_BindTwiceFails(t *testing.T) {
	ctx := tenant.WithHolder(context.Background())

	require.NoError(t, tenant.Bind(ctx, uuid.New()))

	err := tenant.Bind(ctx, uuid.New())
	require.ErrorIs(t, err, tenant.ErrAlreadyBound)
}

func Test_BindInvalidIdentity(t *testing.T) {
	ctx := tenant.WithHolder(context.Background())

	err := tenant.Bind(ctx, uuid.Nil)
	require.ErrorIs(t, err, tenant.ErrInvalidIdentity)
}

func Test_BindWithoutHolder(t *testing.T) {
	err := tenant.Bind(context.Background(), uuid.New())
	require.ErrorIs(t, err, tenant.ErrUnbound)
}

func Test_CurrentUnbound(t *testing.T) {
	_, err := tenant.Current(context.Background())
	require.ErrorIs(t, err, tenant.ErrUnbound)

	_, err = tenant.Current(tenant.WithHolder(context.Background()))
	require.ErrorIs(t, err, tenant.ErrUnbound)

	require.Equal(t, uuid.Nil, tenant.CurrentOrNone(context.Background()))
}

func Test_ClearIsIdempotent(t *testing.T) {
	ctx := tenant.WithHolder(context.Background())
	tenantID := uuid.New()

	tenant.Clear(ctx)
	tenant.Clear(context.Background())

	require.NoError(t, tenant.Bind(ctx, tenantID))
	tenant.Clear(ctx)

	_, err := tenant.Current(ctx)
	require.ErrorIs(t, err, tenant.ErrUnbound)

	// A cleared holder accepts a fresh binding.
	require.NoError(t, tenant.Bind(ctx, uuid.New()))
}

// Test_ClearVisibleThroughDerivedContext proves the deferred Clear in the
// resolution stage is observable even when downstream code derived child
// contexts from the request context.
func Test_ClearVisibleThroughDerivedContext(t *testing.T) {
	ctx := tenant.WithHolder(context.Background())
	require.NoError(t, tenant.Bind(ctx, uuid.New()))

	child := context.WithValue(ctx, struct{}{}, "downstream")
	tenant.Clear(ctx)

	require.Equal(t, uuid.Nil, tenant.CurrentOrNone(child))
}

// Test_ConcurrentRequestsAreIsolated binds tenants A and B on two
// interleaved goroutines, each with its own request context, and verifies
// neither ever observes the other's binding.
func Test_ConcurrentRequestsAreIsolated(t *testing.T) {
	tenantA := uuid.New()
	tenantB := uuid.New()

	var wg sync.WaitGroup
	start := make(chan struct{})

	run := func(want uuid.UUID) {
		defer wg.Done()
		<-start

		ctx := tenant.WithHolder(context.Background())
		if err := tenant.Bind(ctx, want); err != nil {
			t.Error(err)
			return
		}

		for range 1000 {
			got, err := tenant.Current(ctx)
			if err != nil || got != want {
				t.Errorf("got %v err %v, want %v", got, err, want)
				return
			}
		}

		tenant.Clear(ctx)
		if got := tenant.CurrentOrNone(ctx); got != uuid.Nil {
			t.Errorf("context not cleared: %v", got)
		}
	}

	wg.Add(2)
	go run(tenantA)
	go run(tenantB)
	close(start)
	wg.Wait()
}
