// Package screenbus provides business access to tenant-owned screens.
// Every store operation runs inside the tenant scope installed by the
// request's resolution stage, so one tenant's screens are never visible
// to another.
package screenbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/business/sdk/order"
	"github.com/rhettharrison/platform-api/business/sdk/page"
	"github.com/rhettharrison/platform-api/business/sdk/sqldb"
	"github.com/rhettharrison/platform-api/business/sdk/tenant"
	"github.com/rhettharrison/platform-api/business/types/screenstatus"
	"github.com/rhettharrison/platform-api/business/types/screentype"
	"github.com/rhettharrison/platform-api/business/types/urlpath"
	"github.com/rhettharrison/platform-api/foundation/logger"
	"github.com/rhettharrison/platform-api/foundation/otel"
)

var (
	ErrNotFound      = errors.New("screen not found")
	ErrUniquePath    = errors.New("path is not unique")
	ErrReservedPath  = errors.New("path is reserved")
	ErrInvalidScreen = errors.New("invalid screen")
)

// redirectStatuses are the only HTTP statuses a redirect screen may use.
var redirectStatuses = map[int]bool{
	301: true,
	302: true,
	307: true,
	308: true,
}

// Storer defines the behavior required by the screenbus to interact with
// the database. Implementations must enforce the session tenant scope on
// every operation.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	Create(ctx context.Context, scr Screen) error
	Update(ctx context.Context, scr Screen) error
	Delete(ctx context.Context, scr Screen) error
	Query(ctx context.Context, filter QueryFilter, orderBy order.By, page page.Page) ([]Screen, error)
	Count(ctx context.Context, filter QueryFilter) (int, error)
	QueryByID(ctx context.Context, screenID uuid.UUID) (Screen, error)
	QueryByPath(ctx context.Context, path string) (Screen, error)
}

// Core manages the set of APIs for screen access.
type Core struct {
	storer Storer
	log    *logger.Logger
}

// NewCore constructs a core for screen api access.
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

// Create adds a new screen for the bound tenant. The path is normalized
// before storage and the tenant column is stamped by the scoped store, so
// the caller can neither choose the owning tenant nor publish under a
// reserved path.
func (c *Core) Create(ctx context.Context, ns NewScreen) (Screen, error) {
	ctx, span := otel.AddSpan(ctx, "business.screenbus.create")
	defer span.End()

	tenantID, err := tenant.Current(ctx)
	if err != nil {
		return Screen{}, fmt.Errorf("create: %w", err)
	}

	path := urlpath.Normalize(ns.Path)
	if urlpath.Reserved(path) {
		return Screen{}, fmt.Errorf("path[%s]: %w", path, ErrReservedPath)
	}

	now := time.Now()

	scr := Screen{
		ID:             uuid.New(),
		TenantID:       tenantID,
		Path:           path,
		Title:          ns.Title,
		Type:           ns.Type,
		Status:         screenstatus.Draft,
		Content:        ns.Content,
		RedirectURL:    ns.RedirectURL,
		RedirectStatus: ns.RedirectStatus,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := validateScreen(scr); err != nil {
		return Screen{}, err
	}

	if err := c.storer.Create(ctx, scr); err != nil {
		return Screen{}, fmt.Errorf("create: %w", err)
	}

	return scr, nil
}

// Update modifies data about a screen. The owning tenant is fixed at
// creation and is not part of the update surface.
func (c *Core) Update(ctx context.Context, scr Screen, us UpdateScreen) (Screen, error) {
	ctx, span := otel.AddSpan(ctx, "business.screenbus.update")
	defer span.End()

	if us.Path != nil {
		path := urlpath.Normalize(*us.Path)
		if urlpath.Reserved(path) {
			return Screen{}, fmt.Errorf("path[%s]: %w", path, ErrReservedPath)
		}
		scr.Path = path
	}

	if us.Title != nil {
		scr.Title = *us.Title
	}

	if us.Status != nil {
		scr.Status = *us.Status
	}

	if us.Content != nil {
		scr.Content = *us.Content
	}

	if us.RedirectURL != nil {
		scr.RedirectURL = *us.RedirectURL
	}

	if us.RedirectStatus != nil {
		scr.RedirectStatus = *us.RedirectStatus
	}

	if err := validateScreen(scr); err != nil {
		return Screen{}, err
	}

	scr.UpdatedAt = time.Now()

	if err := c.storer.Update(ctx, scr); err != nil {
		return Screen{}, fmt.Errorf("update: %w", err)
	}

	return scr, nil
}

// Delete removes the specified screen.
func (c *Core) Delete(ctx context.Context, scr Screen) error {
	ctx, span := otel.AddSpan(ctx, "business.screenbus.delete")
	defer span.End()

	if err := c.storer.Delete(ctx, scr); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}

// Query retrieves a list of the bound tenant's screens.
func (c *Core) Query(ctx context.Context, filter QueryFilter, orderBy order.By, page page.Page) ([]Screen, error) {
	ctx, span := otel.AddSpan(ctx, "business.screenbus.query")
	defer span.End()

	scrs, err := c.storer.Query(ctx, filter, orderBy, page)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return scrs, nil
}

// Count returns the total number of the bound tenant's screens.
func (c *Core) Count(ctx context.Context, filter QueryFilter) (int, error) {
	ctx, span := otel.AddSpan(ctx, "business.screenbus.count")
	defer span.End()

	return c.storer.Count(ctx, filter)
}

// QueryByID finds the screen by the specified ID within the bound tenant.
func (c *Core) QueryByID(ctx context.Context, screenID uuid.UUID) (Screen, error) {
	ctx, span := otel.AddSpan(ctx, "business.screenbus.queryByID")
	defer span.End()

	scr, err := c.storer.QueryByID(ctx, screenID)
	if err != nil {
		return Screen{}, fmt.Errorf("query: screenID[%s]: %w", screenID, err)
	}

	return scr, nil
}

// QueryByPath finds the published screen at the specified path within the
// bound tenant. The raw path is normalized before lookup.
func (c *Core) QueryByPath(ctx context.Context, path string) (Screen, error) {
	ctx, span := otel.AddSpan(ctx, "business.screenbus.queryByPath")
	defer span.End()

	path = urlpath.Normalize(path)

	scr, err := c.storer.QueryByPath(ctx, path)
	if err != nil {
		return Screen{}, fmt.Errorf("query: path[%s]: %w", path, err)
	}

	return scr, nil
}

// validateScreen applies the type specific rules.
func validateScreen(scr Screen) error {
	switch scr.Type {
	case screentype.Redirect:
		if scr.RedirectURL == "" {
			return fmt.Errorf("redirect screen requires a url: %w", ErrInvalidScreen)
		}
		if !redirectStatuses[scr.RedirectStatus] {
			return fmt.Errorf("redirect status[%d]: %w", scr.RedirectStatus, ErrInvalidScreen)
		}

	case screentype.Markdown, screentype.HTML:
		if scr.RedirectURL != "" || scr.RedirectStatus != 0 {
			return fmt.Errorf("content screen cannot carry redirect fields: %w", ErrInvalidScreen)
		}

	default:
		return fmt.Errorf("unknown screen type: %w", ErrInvalidScreen)
	}

	return nil
}
