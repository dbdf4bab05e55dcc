package screendb

import (
	"time"

	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/business/domain/screenbus"
	"github.com/rhettharrison/platform-api/business/sdk/sqldb"
	"github.com/rhettharrison/platform-api/business/types/screenstatus"
	"github.com/rhettharrison/platform-api/business/types/screentype"
)

// screenDB represents the structure of the screen table in the database.
// The embedded Scoped carries the tenant column and is stamped by the
// scoped helpers, never by this package.
type screenDB struct {
	sqldb.Scoped
	ID             uuid.UUID `db:"screen_id"`
	Path           string    `db:"path"`
	Title          string    `db:"title"`
	Type           string    `db:"type"`
	Status         string    `db:"status"`
	Content        string    `db:"content"`
	RedirectURL    string    `db:"redirect_url"`
	RedirectStatus int       `db:"redirect_status"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func toDBScreen(bus screenbus.Screen) screenDB {
	return screenDB{
		Scoped:         sqldb.Scoped{TenantID: bus.TenantID},
		ID:             bus.ID,
		Path:           bus.Path,
		Title:          bus.Title,
		Type:           bus.Type.String(),
		Status:         bus.Status.String(),
		Content:        bus.Content,
		RedirectURL:    bus.RedirectURL,
		RedirectStatus: bus.RedirectStatus,
		CreatedAt:      bus.CreatedAt,
		UpdatedAt:      bus.UpdatedAt,
	}
}

func toBusScreen(db screenDB) (screenbus.Screen, error) {
	typ, err := screentype.Parse(db.Type)
	if err != nil {
		return screenbus.Screen{}, err
	}

	status, err := screenstatus.Parse(db.Status)
	if err != nil {
		return screenbus.Screen{}, err
	}

	return screenbus.Screen{
		ID:             db.ID,
		TenantID:       db.TenantID,
		Path:           db.Path,
		Title:          db.Title,
		Type:           typ,
		Status:         status,
		Content:        db.Content,
		RedirectURL:    db.RedirectURL,
		RedirectStatus: db.RedirectStatus,
		CreatedAt:      db.CreatedAt,
		UpdatedAt:      db.UpdatedAt,
	}, nil
}

func toBusScreens(dbs []screenDB) ([]screenbus.Screen, error) {
	bus := make([]screenbus.Screen, len(dbs))
	for i, db := range dbs {
		var err error
		bus[i], err = toBusScreen(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}

// queryParams carries the filter and paging values for the list queries.
// Empty filter fields disable their predicate.
type queryParams struct {
	sqldb.Scoped
	Path        string `db:"path"`
	Type        string `db:"type"`
	Status      string `db:"status"`
	Offset      int    `db:"offset"`
	RowsPerPage int    `db:"rows_per_page"`
}

func toQueryParams(filter screenbus.QueryFilter) queryParams {
	var qp queryParams

	if filter.Path != nil {
		qp.Path = *filter.Path
	}

	if filter.Type != nil {
		qp.Type = filter.Type.String()
	}

	if filter.Status != nil {
		qp.Status = filter.Status.String()
	}

	return qp
}
