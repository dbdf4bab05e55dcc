package mid

import (
	"context"
	"net/http"

	"github.com/rhettharrison/platform-api/app/sdk/errs"
	"github.com/rhettharrison/platform-api/business/sdk/web"
	"github.com/rhettharrison/platform-api/foundation/logger"
)

// Errors handles errors coming out of the call chain. The full error is
// logged; only the sanitized application error crosses the wire.
func Errors(log *logger.Logger) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			resp := next(ctx, r)

			err := checkIsError(resp)
			if err == nil {
				return resp
			}

			var appErr *errs.Error

			switch {
			case errs.IsFieldErrors(err):
				fieldErrors := errs.GetFieldErrors(err)

				log.Error(ctx, "handled error during request",
					"err", err, "source_err_file", "validation")

				return errs.Newf(errs.InvalidArgument, "%s", fieldErrors)

			case errs.IsError(err):
				appErr = errs.GetError(err)

			default:
				appErr = errs.Newf(errs.Internal, "Internal Server Error")
			}

			log.Error(ctx, "handled error during request",
				"err", err,
				"source_err_file", appErr.FileName,
				"source_err_func", appErr.FuncName)

			if appErr.Code == errs.InternalOnlyLog {
				appErr = errs.Newf(errs.Internal, "Internal Server Error")
			}

			return appErr
		}

		return h
	}

	return m
}
