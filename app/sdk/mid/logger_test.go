package mid_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rhettharrison/platform-api/app/sdk/mid"
	"github.com/rhettharrison/platform-api/business/sdk/web"
	"github.com/rhettharrison/platform-api/foundation/logger"
	"github.com/stretchr/testify/require"
)

// The request logger runs inside the resolution stage, so the completed
// line must carry the tenant attribute even though the stage removes it
// on the way out.
func Test_Logger_CompletedLineCarriesTenant(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.LevelInfo, "TEST", nil)

	app := web.NewApp(log.Info, nil, newResolveMid(t), mid.Logger(log))

	app.HandlerFunc(http.MethodGet, "v1", "/screens", func(ctx context.Context, r *http.Request) web.Encoder {
		return web.NewNoResponse()
	})

	r := httptest.NewRequest(http.MethodGet, "http://acme.platform.test/v1/screens", nil)
	w := httptest.NewRecorder()

	app.ServeHTTP(w, r)

	out := buf.String()
	require.Contains(t, out, "request completed")
	require.Contains(t, out, acmeID.String())
}
