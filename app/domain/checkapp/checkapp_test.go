package checkapp_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rhettharrison/platform-api/app/domain/checkapp"
	"github.com/rhettharrison/platform-api/business/sdk/web"
	"github.com/rhettharrison/platform-api/foundation/logger"
	"github.com/stretchr/testify/require"
)

func Test_Docs(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)

	app := web.NewApp(log.Info, nil)
	checkapp.Routes(app, checkapp.Config{
		Build: "test",
		Log:   log,
	})

	r := httptest.NewRequest(http.MethodGet, "/v1/docs", nil)
	w := httptest.NewRecorder()

	app.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var docs checkapp.Docs
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	require.Equal(t, "test", docs.Build)
	require.NotEmpty(t, docs.Routes)

	var found bool
	for _, rt := range docs.Routes {
		if rt.Method == http.MethodGet && rt.Path == "/v1/docs" {
			found = true
		}
	}
	require.True(t, found, "route listing must include the docs endpoint itself")
}
