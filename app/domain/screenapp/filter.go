package screenapp

import (
	"net/url"

	"github.com/rhettharrison/platform-api/app/sdk/errs"
	"github.com/rhettharrison/platform-api/business/domain/screenbus"
	"github.com/rhettharrison/platform-api/business/types/screenstatus"
	"github.com/rhettharrison/platform-api/business/types/screentype"
	"github.com/rhettharrison/platform-api/business/types/urlpath"
)

var orderByFields = map[string]string{
	"path":       screenbus.OrderByPath,
	"created_at": screenbus.OrderByCreatedAt,
}

func parseFilter(qp url.Values) (screenbus.QueryFilter, error) {
	var filter screenbus.QueryFilter

	if v := qp.Get("path"); v != "" {
		path := urlpath.Normalize(v)
		filter.Path = &path
	}

	if v := qp.Get("type"); v != "" {
		typ, err := screentype.Parse(v)
		if err != nil {
			return screenbus.QueryFilter{}, errs.New(errs.InvalidArgument, err)
		}
		filter.Type = &typ
	}

	if v := qp.Get("status"); v != "" {
		status, err := screenstatus.Parse(v)
		if err != nil {
			return screenbus.QueryFilter{}, errs.New(errs.InvalidArgument, err)
		}
		filter.Status = &status
	}

	return filter, nil
}
