package screenapp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rhettharrison/platform-api/app/sdk/errs"
	"github.com/rhettharrison/platform-api/business/domain/screenbus"
)

// AppScreen is the wire representation of a screen. The owning tenant is
// implicit in the request and never serialized.
type AppScreen struct {
	ID             string `json:"id"`
	Path           string `json:"path"`
	Title          string `json:"title"`
	Type           string `json:"type"`
	Status         string `json:"status"`
	Content        string `json:"content,omitempty"`
	RedirectURL    string `json:"redirectUrl,omitempty"`
	RedirectStatus int    `json:"redirectStatus,omitempty"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

// Encode implements the web.Encoder interface.
func (app AppScreen) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppScreen(scr screenbus.Screen) AppScreen {
	return AppScreen{
		ID:             scr.ID.String(),
		Path:           scr.Path,
		Title:          scr.Title,
		Type:           scr.Type.String(),
		Status:         scr.Status.String(),
		Content:        scr.Content,
		RedirectURL:    scr.RedirectURL,
		RedirectStatus: scr.RedirectStatus,
		CreatedAt:      scr.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      scr.UpdatedAt.Format(time.RFC3339),
	}
}

func toAppScreens(scrs []screenbus.Screen) []AppScreen {
	app := make([]AppScreen, len(scrs))
	for i, scr := range scrs {
		app[i] = toAppScreen(scr)
	}

	return app
}

// Screens is the paged response for a screen listing.
type Screens struct {
	Items       []AppScreen `json:"items"`
	Total       int         `json:"total"`
	Page        int         `json:"page"`
	RowsPerPage int         `json:"rowsPerPage"`
}

// Encode implements the web.Encoder interface.
func (app Screens) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

// NewScreen is the request to create a screen.
type NewScreen struct {
	Path           string `json:"path" validate:"required"`
	Title          string `json:"title"`
	Type           string `json:"type" validate:"required,oneof=MARKDOWN HTML REDIRECT"`
	Content        string `json:"content"`
	RedirectURL    string `json:"redirectUrl"`
	RedirectStatus int    `json:"redirectStatus"`
}

// Decode implements the web.Decoder interface.
func (app *NewScreen) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app NewScreen) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}

// UpdateScreen is the request to update a screen.
type UpdateScreen struct {
	Path           *string `json:"path"`
	Title          *string `json:"title"`
	Status         *string `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	Content        *string `json:"content"`
	RedirectURL    *string `json:"redirectUrl"`
	RedirectStatus *int    `json:"redirectStatus"`
}

// Decode implements the web.Decoder interface.
func (app *UpdateScreen) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app UpdateScreen) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}
