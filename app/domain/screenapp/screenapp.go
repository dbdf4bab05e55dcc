// Package screenapp maintains the app layer api for the screen domain.
package screenapp

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/app/sdk/errs"
	"github.com/rhettharrison/platform-api/app/sdk/mid"
	"github.com/rhettharrison/platform-api/business/domain/screenbus"
	"github.com/rhettharrison/platform-api/business/sdk/order"
	"github.com/rhettharrison/platform-api/business/sdk/page"
	"github.com/rhettharrison/platform-api/business/sdk/web"
	"github.com/rhettharrison/platform-api/business/types/screenstatus"
	"github.com/rhettharrison/platform-api/business/types/screentype"
)

type app struct {
	screenBus *screenbus.Core
}

func newApp(screenBus *screenbus.Core) *app {
	return &app{
		screenBus: screenBus,
	}
}

// executeUnderTransaction swaps the business packages for transactional
// variants when the route runs inside a transaction.
func (a *app) executeUnderTransaction(ctx context.Context) (*app, error) {
	if tx, err := mid.GetTran(ctx); err == nil {
		screenBus, err := a.screenBus.NewWithTx(tx)
		if err != nil {
			return nil, err
		}

		return &app{
			screenBus: screenBus,
		}, nil
	}

	return a, nil
}

// serve returns the published screen at the requested path for the
// resolved tenant. This is the public content endpoint.
func (a *app) serve(ctx context.Context, r *http.Request) web.Encoder {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}

	scr, err := a.screenBus.QueryByPath(ctx, path)
	if err != nil {
		if errors.Is(err, screenbus.ErrNotFound) {
			return errs.Newf(errs.NotFound, "not found")
		}
		return errs.Newf(errs.Internal, "querybypath: %s", err)
	}

	return toAppScreen(scr)
}

func (a *app) create(ctx context.Context, r *http.Request) web.Encoder {
	var req NewScreen

	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	a, err := a.executeUnderTransaction(ctx)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	ns, err := toBusNewScreen(req)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	scr, err := a.screenBus.Create(ctx, ns)
	if err != nil {
		switch {
		case errors.Is(err, screenbus.ErrUniquePath):
			return errs.New(errs.AlreadyExists, screenbus.ErrUniquePath)
		case errors.Is(err, screenbus.ErrReservedPath), errors.Is(err, screenbus.ErrInvalidScreen):
			return errs.New(errs.InvalidArgument, err)
		}
		return errs.Newf(errs.Internal, "create: %s", err)
	}

	return toAppScreen(scr)
}

func (a *app) update(ctx context.Context, r *http.Request) web.Encoder {
	var req UpdateScreen

	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	a, err := a.executeUnderTransaction(ctx)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	scr, err := a.queryByID(ctx, r)
	if err != nil {
		return err.(web.Encoder)
	}

	us, err := toBusUpdateScreen(req)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	updated, err := a.screenBus.Update(ctx, scr, us)
	if err != nil {
		switch {
		case errors.Is(err, screenbus.ErrUniquePath):
			return errs.New(errs.AlreadyExists, screenbus.ErrUniquePath)
		case errors.Is(err, screenbus.ErrReservedPath), errors.Is(err, screenbus.ErrInvalidScreen):
			return errs.New(errs.InvalidArgument, err)
		}
		return errs.Newf(errs.Internal, "update: %s", err)
	}

	return toAppScreen(updated)
}

func (a *app) delete(ctx context.Context, r *http.Request) web.Encoder {
	a, err := a.executeUnderTransaction(ctx)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	scr, errEnc := a.queryByID(ctx, r)
	if errEnc != nil {
		return errEnc.(web.Encoder)
	}

	if err := a.screenBus.Delete(ctx, scr); err != nil {
		return errs.Newf(errs.Internal, "delete: %s", err)
	}

	return nil
}

func (a *app) queryByIDHandler(ctx context.Context, r *http.Request) web.Encoder {
	scr, errEnc := a.queryByID(ctx, r)
	if errEnc != nil {
		return errEnc.(web.Encoder)
	}

	return toAppScreen(scr)
}

func (a *app) query(ctx context.Context, r *http.Request) web.Encoder {
	qp := r.URL.Query()

	pg, err := page.Parse(qp.Get("page"), qp.Get("rows"))
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	orderBy, err := order.Parse(orderByFields, qp.Get("orderBy"), screenbus.DefaultOrderBy)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	filter, err := parseFilter(qp)
	if err != nil {
		return err.(web.Encoder)
	}

	scrs, err := a.screenBus.Query(ctx, filter, orderBy, pg)
	if err != nil {
		return errs.Newf(errs.Internal, "query: %s", err)
	}

	total, err := a.screenBus.Count(ctx, filter)
	if err != nil {
		return errs.Newf(errs.Internal, "count: %s", err)
	}

	return Screens{
		Items:       toAppScreens(scrs),
		Total:       total,
		Page:        pg.Number(),
		RowsPerPage: pg.RowsPerPage(),
	}
}

// =============================================================================

func (a *app) queryByID(ctx context.Context, r *http.Request) (screenbus.Screen, error) {
	id, err := uuid.Parse(web.Param(r, "screen_id"))
	if err != nil {
		return screenbus.Screen{}, errs.New(errs.InvalidArgument, errors.New("invalid screen id"))
	}

	scr, err := a.screenBus.QueryByID(ctx, id)
	if err != nil {
		if errors.Is(err, screenbus.ErrNotFound) {
			return screenbus.Screen{}, errs.New(errs.NotFound, screenbus.ErrNotFound)
		}
		return screenbus.Screen{}, errs.Newf(errs.Internal, "querybyid: %s", err)
	}

	return scr, nil
}

func toBusNewScreen(app NewScreen) (screenbus.NewScreen, error) {
	typ, err := screentype.Parse(app.Type)
	if err != nil {
		return screenbus.NewScreen{}, err
	}

	return screenbus.NewScreen{
		Path:           app.Path,
		Title:          app.Title,
		Type:           typ,
		Content:        app.Content,
		RedirectURL:    app.RedirectURL,
		RedirectStatus: app.RedirectStatus,
	}, nil
}

func toBusUpdateScreen(app UpdateScreen) (screenbus.UpdateScreen, error) {
	us := screenbus.UpdateScreen{
		Path:           app.Path,
		Title:          app.Title,
		Content:        app.Content,
		RedirectURL:    app.RedirectURL,
		RedirectStatus: app.RedirectStatus,
	}

	if app.Status != nil {
		status, err := screenstatus.Parse(*app.Status)
		if err != nil {
			return screenbus.UpdateScreen{}, err
		}
		us.Status = &status
	}

	return us, nil
}
