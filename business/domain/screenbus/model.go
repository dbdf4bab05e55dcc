package screenbus

import (
	"time"

	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/business/types/screenstatus"
	"github.com/rhettharrison/platform-api/business/types/screentype"
)

// Screen represents a piece of addressable tenant content: a markdown or
// html page, or a redirect, published at a normalized path.
type Screen struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	Path           string
	Title          string
	Type           screentype.ScreenType
	Status         screenstatus.ScreenStatus
	Content        string
	RedirectURL    string
	RedirectStatus int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewScreen contains information needed to create a new screen.
type NewScreen struct {
	Path           string
	Title          string
	Type           screentype.ScreenType
	Content        string
	RedirectURL    string
	RedirectStatus int
}

// UpdateScreen contains information needed to update a screen.
type UpdateScreen struct {
	Path           *string
	Title          *string
	Status         *screenstatus.ScreenStatus
	Content        *string
	RedirectURL    *string
	RedirectStatus *int
}

// QueryFilter holds the available fields a query can be filtered on. Zero
// valued fields are ignored.
type QueryFilter struct {
	Path   *string
	Type   *screentype.ScreenType
	Status *screenstatus.ScreenStatus
}
