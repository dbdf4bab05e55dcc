package screenbus_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/business/domain/screenbus"
	"github.com/rhettharrison/platform-api/business/sdk/order"
	"github.com/rhettharrison/platform-api/business/sdk/page"
	"github.com/rhettharrison/platform-api/business/sdk/sqldb"
	"github.com/rhettharrison/platform-api/business/sdk/tenant"
	"github.com/rhettharrison/platform-api/business/types/screenstatus"
	"github.com/rhettharrison/platform-api/business/types/screentype"
	"github.com/rhettharrison/platform-api/foundation/logger"
	"github.com/stretchr/testify/require"
)

func newCore(t *testing.T) (*screenbus.Core, *memStorer) {
	t.Helper()

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)
	storer := newMemStorer()

	return screenbus.NewCore(log, storer), storer
}

func scopedCtx(t *testing.T, tenantID uuid.UUID) context.Context {
	t.Helper()

	ctx := tenant.WithHolder(context.Background())
	require.NoError(t, tenant.Bind(ctx, tenantID))

	ctx, err := sqldb.AttachScope(ctx, tenantID)
	require.NoError(t, err)

	return ctx
}

func Test_Create(t *testing.T) {
	core, _ := newCore(t)
	tenantID := uuid.New()
	ctx := scopedCtx(t, tenantID)

	scr, err := core.Create(ctx, screenbus.NewScreen{
		Path:    "Blog/",
		Title:   "Blog",
		Type:    screentype.Markdown,
		Content: "# Hello",
	})
	require.NoError(t, err)

	require.Equal(t, tenantID, scr.TenantID)
	require.Equal(t, "/blog", scr.Path)
	require.True(t, scr.Status.Equal(screenstatus.Draft))
}

func Test_QueryByID(t *testing.T) {
	core, _ := newCore(t)
	ctx := scopedCtx(t, uuid.New())

	scr, err := core.Create(ctx, screenbus.NewScreen{
		Path:    "/about",
		Title:   "About",
		Type:    screentype.HTML,
		Content: "<p>about</p>",
	})
	require.NoError(t, err)

	got, err := core.QueryByID(ctx, scr.ID)
	require.NoError(t, err)

	if diff := cmp.Diff(got, scr); diff != "" {
		t.Fatalf("should get back the same screen. diff:\n%s", diff)
	}
}

func Test_Create_Unbound(t *testing.T) {
	core, _ := newCore(t)

	_, err := core.Create(context.Background(), screenbus.NewScreen{
		Path: "/blog",
		Type: screentype.Markdown,
	})
	require.ErrorIs(t, err, tenant.ErrUnbound)
}

func Test_Create_ReservedPath(t *testing.T) {
	core, _ := newCore(t)
	ctx := scopedCtx(t, uuid.New())

	for _, path := range []string{"/admin", "/admin/pages", "/_internal", "/a/../admin"} {
		_, err := core.Create(ctx, screenbus.NewScreen{
			Path: path,
			Type: screentype.Markdown,
		})
		require.ErrorIs(t, err, screenbus.ErrReservedPath, path)
	}
}

func Test_Create_RedirectValidation(t *testing.T) {
	core, _ := newCore(t)
	ctx := scopedCtx(t, uuid.New())

	_, err := core.Create(ctx, screenbus.NewScreen{
		Path: "/old",
		Type: screentype.Redirect,
	})
	require.ErrorIs(t, err, screenbus.ErrInvalidScreen)

	_, err = core.Create(ctx, screenbus.NewScreen{
		Path:           "/old",
		Type:           screentype.Redirect,
		RedirectURL:    "https://example.com/new",
		RedirectStatus: 200,
	})
	require.ErrorIs(t, err, screenbus.ErrInvalidScreen)

	_, err = core.Create(ctx, screenbus.NewScreen{
		Path:           "/old",
		Type:           screentype.Redirect,
		RedirectURL:    "https://example.com/new",
		RedirectStatus: 301,
	})
	require.NoError(t, err)

	_, err = core.Create(ctx, screenbus.NewScreen{
		Path:           "/page",
		Type:           screentype.HTML,
		Content:        "<p>hi</p>",
		RedirectStatus: 301,
	})
	require.ErrorIs(t, err, screenbus.ErrInvalidScreen)
}

func Test_Update_TenantFixed(t *testing.T) {
	core, _ := newCore(t)
	tenantID := uuid.New()
	ctx := scopedCtx(t, tenantID)

	scr, err := core.Create(ctx, screenbus.NewScreen{
		Path:    "/about",
		Type:    screentype.HTML,
		Content: "<p>about</p>",
	})
	require.NoError(t, err)

	status := screenstatus.Published
	title := "About"

	got, err := core.Update(ctx, scr, screenbus.UpdateScreen{
		Title:  &title,
		Status: &status,
	})
	require.NoError(t, err)
	require.Equal(t, tenantID, got.TenantID)
	require.Equal(t, "About", got.Title)
}

func Test_QueryByPath_Normalizes(t *testing.T) {
	core, _ := newCore(t)
	tenantID := uuid.New()
	ctx := scopedCtx(t, tenantID)

	scr, err := core.Create(ctx, screenbus.NewScreen{
		Path:    "/docs/intro",
		Type:    screentype.Markdown,
		Content: "# Intro",
	})
	require.NoError(t, err)

	status := screenstatus.Published
	_, err = core.Update(ctx, scr, screenbus.UpdateScreen{Status: &status})
	require.NoError(t, err)

	got, err := core.QueryByPath(ctx, "/Docs//Intro/")
	require.NoError(t, err)
	require.Equal(t, scr.ID, got.ID)
}

func Test_QueryByPath_DraftHidden(t *testing.T) {
	core, _ := newCore(t)
	ctx := scopedCtx(t, uuid.New())

	_, err := core.Create(ctx, screenbus.NewScreen{
		Path:    "/draft",
		Type:    screentype.Markdown,
		Content: "wip",
	})
	require.NoError(t, err)

	_, err = core.QueryByPath(ctx, "/draft")
	require.ErrorIs(t, err, screenbus.ErrNotFound)
}

func Test_Isolation_Concurrent(t *testing.T) {
	core, _ := newCore(t)

	tenantA := uuid.New()
	tenantB := uuid.New()

	var wg sync.WaitGroup
	errc := make(chan error, 2)

	run := func(tenantID uuid.UUID, label string) {
		defer wg.Done()

		ctx := tenant.WithHolder(context.Background())
		if err := tenant.Bind(ctx, tenantID); err != nil {
			errc <- err
			return
		}
		ctx, err := sqldb.AttachScope(ctx, tenantID)
		if err != nil {
			errc <- err
			return
		}

		for i := 0; i < 100; i++ {
			scr, err := core.Create(ctx, screenbus.NewScreen{
				Path:    fmt.Sprintf("/%s/%d", label, i),
				Type:    screentype.Markdown,
				Content: label,
			})
			if err != nil {
				errc <- err
				return
			}
			if scr.TenantID != tenantID {
				errc <- fmt.Errorf("screen stamped with wrong tenant: %s", scr.TenantID)
				return
			}

			scrs, err := core.Query(ctx, screenbus.QueryFilter{}, screenbus.DefaultOrderBy, page.MustParse("1", "100"))
			if err != nil {
				errc <- err
				return
			}
			for _, got := range scrs {
				if got.TenantID != tenantID {
					errc <- fmt.Errorf("query leaked screen of tenant %s", got.TenantID)
					return
				}
			}
		}
	}

	wg.Add(2)
	go run(tenantA, "a")
	go run(tenantB, "b")
	wg.Wait()
	close(errc)

	for err := range errc {
		require.NoError(t, err)
	}
}

// =============================================================================

// memStorer keeps screens per tenant and refuses to serve without the
// session scope, mirroring the behavior of the scoped db store.
type memStorer struct {
	mu      sync.Mutex
	screens map[uuid.UUID]map[uuid.UUID]screenbus.Screen
}

func newMemStorer() *memStorer {
	return &memStorer{
		screens: make(map[uuid.UUID]map[uuid.UUID]screenbus.Screen),
	}
}

func (s *memStorer) scope(ctx context.Context) (uuid.UUID, error) {
	scopeID, err := sqldb.ScopeTenantID(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	currentID, err := tenant.Current(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	if scopeID != currentID {
		return uuid.Nil, sqldb.ErrScopeMismatch
	}

	return scopeID, nil
}

func (s *memStorer) NewWithTx(tx sqldb.CommitRollbacker) (screenbus.Storer, error) {
	return s, nil
}

func (s *memStorer) Create(ctx context.Context, scr screenbus.Screen) error {
	tenantID, err := s.scope(ctx)
	if err != nil {
		return err
	}

	scr.TenantID = tenantID

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, exists := s.screens[tenantID]
	if !exists {
		rows = make(map[uuid.UUID]screenbus.Screen)
		s.screens[tenantID] = rows
	}

	for _, other := range rows {
		if other.Path == scr.Path {
			return screenbus.ErrUniquePath
		}
	}

	rows[scr.ID] = scr

	return nil
}

func (s *memStorer) Update(ctx context.Context, scr screenbus.Screen) error {
	tenantID, err := s.scope(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.screens[tenantID]
	if _, exists := rows[scr.ID]; !exists {
		return screenbus.ErrNotFound
	}

	scr.TenantID = tenantID
	rows[scr.ID] = scr

	return nil
}

func (s *memStorer) Delete(ctx context.Context, scr screenbus.Screen) error {
	tenantID, err := s.scope(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.screens[tenantID], scr.ID)

	return nil
}

func (s *memStorer) Query(ctx context.Context, filter screenbus.QueryFilter, orderBy order.By, page page.Page) ([]screenbus.Screen, error) {
	tenantID, err := s.scope(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var scrs []screenbus.Screen
	for _, scr := range s.screens[tenantID] {
		if filter.Status != nil && !scr.Status.Equal(*filter.Status) {
			continue
		}
		if filter.Type != nil && !scr.Type.Equal(*filter.Type) {
			continue
		}
		if filter.Path != nil && scr.Path != *filter.Path {
			continue
		}
		scrs = append(scrs, scr)
	}

	return scrs, nil
}

func (s *memStorer) Count(ctx context.Context, filter screenbus.QueryFilter) (int, error) {
	scrs, err := s.Query(ctx, filter, screenbus.DefaultOrderBy, page.MustParse("1", "100"))
	if err != nil {
		return 0, err
	}

	return len(scrs), nil
}

func (s *memStorer) QueryByID(ctx context.Context, screenID uuid.UUID) (screenbus.Screen, error) {
	tenantID, err := s.scope(ctx)
	if err != nil {
		return screenbus.Screen{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scr, exists := s.screens[tenantID][screenID]
	if !exists {
		return screenbus.Screen{}, screenbus.ErrNotFound
	}

	return scr, nil
}

func (s *memStorer) QueryByPath(ctx context.Context, path string) (screenbus.Screen, error) {
	tenantID, err := s.scope(ctx)
	if err != nil {
		return screenbus.Screen{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, scr := range s.screens[tenantID] {
		if scr.Path == path && scr.Status.Equal(screenstatus.Published) {
			return scr, nil
		}
	}

	return screenbus.Screen{}, screenbus.ErrNotFound
}
