package mid

import (
	"context"
	"net/http"

	"github.com/rhettharrison/platform-api/business/sdk/web"
)

// correlationHeader is the header callers and downstream systems use to
// correlate a request across services.
const correlationHeader = "X-Request-ID"

// Correlate adopts the caller's correlation id when one is supplied,
// otherwise the generated trace id stands. The effective id is echoed on
// the response so the caller can quote it.
func Correlate() web.MidFunc {
	registerStage(StageCorrelate)

	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			if id := r.Header.Get(correlationHeader); id != "" {
				web.SetTraceID(ctx, id)
			}

			if w := web.GetWriter(ctx); w != nil {
				w.Header().Set(correlationHeader, web.GetTraceID(ctx))
			}

			return next(ctx, r)
		}

		return h
	}

	return m
}
