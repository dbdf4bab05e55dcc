// Package screendb contains screen related CRUD functionality. The screen
// table is tenant owned, so every statement is registered as scoped and
// executed through the scoped helpers.
package screendb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rhettharrison/platform-api/business/domain/screenbus"
	"github.com/rhettharrison/platform-api/business/sdk/order"
	"github.com/rhettharrison/platform-api/business/sdk/page"
	"github.com/rhettharrison/platform-api/business/sdk/sqldb"
	"github.com/rhettharrison/platform-api/foundation/logger"
)

var qCreate = sqldb.RegisterScopedQuery("screendb.create", `
	INSERT INTO "public"."screen"
		(screen_id, tenant_id, path, title, type, status, content, redirect_url, redirect_status, created_at, updated_at)
	VALUES
		(:screen_id, :tenant_id, :path, :title, :type, :status, :content, :redirect_url, :redirect_status, :created_at, :updated_at)`)

var qUpdate = sqldb.RegisterScopedQuery("screendb.update", `
	UPDATE
		"public"."screen"
	SET
		path = :path,
		title = :title,
		status = :status,
		content = :content,
		redirect_url = :redirect_url,
		redirect_status = :redirect_status,
		updated_at = :updated_at
	WHERE
		screen_id = :screen_id AND tenant_id = :tenant_id`)

var qDelete = sqldb.RegisterScopedQuery("screendb.delete", `
	DELETE FROM
		"public"."screen"
	WHERE
		screen_id = :screen_id AND tenant_id = :tenant_id`)

var qQueryByID = sqldb.RegisterScopedQuery("screendb.querybyid", `
	SELECT
		screen_id, tenant_id, path, title, type, status, content, redirect_url, redirect_status, created_at, updated_at
	FROM
		"public"."screen"
	WHERE
		screen_id = :screen_id AND tenant_id = :tenant_id`)

var qQueryByPath = sqldb.RegisterScopedQuery("screendb.querybypath", `
	SELECT
		screen_id, tenant_id, path, title, type, status, content, redirect_url, redirect_status, created_at, updated_at
	FROM
		"public"."screen"
	WHERE
		path = :path AND status = 'PUBLISHED' AND tenant_id = :tenant_id`)

var qCount = sqldb.RegisterScopedQuery("screendb.count", `
	SELECT
		count(1) AS count
	FROM
		"public"."screen"
	WHERE
		tenant_id = :tenant_id AND
		(:path = '' OR path = :path) AND
		(:type = '' OR type = :type) AND
		(:status = '' OR status = :status)`)

const queryTemplate = `
	SELECT
		screen_id, tenant_id, path, title, type, status, content, redirect_url, redirect_status, created_at, updated_at
	FROM
		"public"."screen"
	WHERE
		tenant_id = :tenant_id AND
		(:path = '' OR path = :path) AND
		(:type = '' OR type = :type) AND
		(:status = '' OR status = :status)
	ORDER BY
		%s
	OFFSET :offset ROWS FETCH NEXT :rows_per_page ROWS ONLY`

// queryOrderings holds one registered statement per supported ordering.
// The statements are fixed at init so the startup guardrail can validate
// every one of them.
var queryOrderings = make(map[order.By]string)

func init() {
	orderings := map[order.By]string{
		order.NewBy(screenbus.OrderByPath, order.ASC):       "path ASC",
		order.NewBy(screenbus.OrderByPath, order.DESC):      "path DESC",
		order.NewBy(screenbus.OrderByCreatedAt, order.ASC):  "created_at ASC",
		order.NewBy(screenbus.OrderByCreatedAt, order.DESC): "created_at DESC",
	}

	for by, clause := range orderings {
		name := fmt.Sprintf("screendb.query.%s.%s", by.Field, strings.ToLower(by.Direction))
		queryOrderings[by] = sqldb.RegisterScopedQuery(name, fmt.Sprintf(queryTemplate, clause))
	}
}

// Store manages the set of APIs for screen database access.
type Store struct {
	log *logger.Logger
	db  sqlx.ExtContext
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, db *sqlx.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// NewWithTx constructs a new Store value replacing the sqlx DB
// value with a sqlx DB value that is currently inside a transaction.
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (screenbus.Storer, error) {
	ec, err := sqldb.GetExtContext(tx)
	if err != nil {
		return nil, err
	}

	store := Store{
		log: s.log,
		db:  ec,
	}

	return &store, nil
}

// Create inserts a new screen into the database. The tenant column is
// stamped with the session tenant by the scoped helper.
func (s *Store) Create(ctx context.Context, scr screenbus.Screen) error {
	dbScr := toDBScreen(scr)

	if err := sqldb.ScopedNamedExecContext(ctx, s.log, s.db, qCreate, &dbScr); err != nil {
		var dupErr sqldb.ErrDBDuplicatedEntry
		if errors.As(err, &dupErr) {
			return fmt.Errorf("namedexeccontext: %w", screenbus.ErrUniquePath)
		}
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Update replaces a screen document in the database. The tenant column is
// not part of the SET list: ownership never moves.
func (s *Store) Update(ctx context.Context, scr screenbus.Screen) error {
	dbScr := toDBScreen(scr)

	if err := sqldb.ScopedNamedExecContext(ctx, s.log, s.db, qUpdate, &dbScr); err != nil {
		var dupErr sqldb.ErrDBDuplicatedEntry
		if errors.As(err, &dupErr) {
			return fmt.Errorf("namedexeccontext: %w", screenbus.ErrUniquePath)
		}
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Delete removes a screen from the database.
func (s *Store) Delete(ctx context.Context, scr screenbus.Screen) error {
	dbScr := toDBScreen(scr)

	if err := sqldb.ScopedNamedExecContext(ctx, s.log, s.db, qDelete, &dbScr); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Query retrieves a list of the session tenant's screens.
func (s *Store) Query(ctx context.Context, filter screenbus.QueryFilter, orderBy order.By, page page.Page) ([]screenbus.Screen, error) {
	q, exists := queryOrderings[orderBy]
	if !exists {
		return nil, fmt.Errorf("order by %s %s is not supported", orderBy.Field, orderBy.Direction)
	}

	data := toQueryParams(filter)
	data.Offset = (page.Number() - 1) * page.RowsPerPage()
	data.RowsPerPage = page.RowsPerPage()

	var dbScrs []screenDB
	if err := sqldb.ScopedNamedQuerySlice(ctx, s.log, s.db, q, &data, &dbScrs); err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	scrs, err := toBusScreens(dbScrs)
	if err != nil {
		return nil, fmt.Errorf("tobusscreens: %w", err)
	}

	return scrs, nil
}

// Count returns the total number of the session tenant's screens.
func (s *Store) Count(ctx context.Context, filter screenbus.QueryFilter) (int, error) {
	data := toQueryParams(filter)

	var count struct {
		Count int `db:"count"`
	}
	if err := sqldb.ScopedNamedQueryStruct(ctx, s.log, s.db, qCount, &data, &count); err != nil {
		return 0, fmt.Errorf("db: %w", err)
	}

	return count.Count, nil
}

// QueryByID gets the specified screen from the database, restricted to the
// session tenant's rows.
func (s *Store) QueryByID(ctx context.Context, screenID uuid.UUID) (screenbus.Screen, error) {
	data := struct {
		sqldb.Scoped
		ID string `db:"screen_id"`
	}{
		ID: screenID.String(),
	}

	var dbScr screenDB
	if err := sqldb.ScopedNamedQueryStruct(ctx, s.log, s.db, qQueryByID, &data, &dbScr); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return screenbus.Screen{}, fmt.Errorf("db: %w", screenbus.ErrNotFound)
		}
		return screenbus.Screen{}, fmt.Errorf("db: %w", err)
	}

	return toBusScreen(dbScr)
}

// QueryByPath gets the published screen at the specified path, restricted
// to the session tenant's rows.
func (s *Store) QueryByPath(ctx context.Context, path string) (screenbus.Screen, error) {
	data := struct {
		sqldb.Scoped
		Path string `db:"path"`
	}{
		Path: path,
	}

	var dbScr screenDB
	if err := sqldb.ScopedNamedQueryStruct(ctx, s.log, s.db, qQueryByPath, &data, &dbScr); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return screenbus.Screen{}, fmt.Errorf("db: %w", screenbus.ErrNotFound)
		}
		return screenbus.Screen{}, fmt.Errorf("db: %w", err)
	}

	return toBusScreen(dbScr)
}
