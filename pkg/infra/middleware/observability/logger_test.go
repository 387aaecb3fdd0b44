package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infralogger "github.com/kart-io/launchpad/pkg/infra/logger"
	"github.com/kart-io/launchpad/pkg/infra/logger/logtest"
	"github.com/kart-io/launchpad/pkg/infra/middleware"
	mwopts "github.com/kart-io/launchpad/pkg/options/middleware"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(*mwopts.NewRequestIDOptions(), nil), Logger(LoggerOptions{SkipPaths: []string{"/healthz"}}))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/moved", func(c *gin.Context) { c.Redirect(http.StatusFound, "/ok") })
	r.GET("/broken", func(c *gin.Context) {
		_ = c.Error(errors.New("db down"))
		c.Status(http.StatusInternalServerError)
	})
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func get(r *gin.Engine, path string) {
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
}

func TestLogger_Success(t *testing.T) {
	rec := logtest.InstallGlobal(t)
	get(newEngine(), "/ok?x=1")

	require.True(t, rec.Has(core.InfoLevel, "Call Endpoint: GET /ok?x=1"))
	finished := rec.Find("Finished Endpoint: GET /ok?x=1 for ")
	require.Len(t, finished, 1)
	assert.Equal(t, core.InfoLevel, finished[0].Level)

	rid, ok := finished[0].Field(infralogger.FieldRequestID)
	require.True(t, ok)
	assert.NotEmpty(t, rid)
	status, _ := finished[0].Field("status")
	assert.Equal(t, http.StatusOK, status)
}

func TestLogger_ClientErrorAtInfo(t *testing.T) {
	rec := logtest.InstallGlobal(t)
	get(newEngine(), "/missing")

	assert.True(t, rec.Has(core.InfoLevel, "Finished Endpoint: GET /missing"))
	assert.Equal(t, 0, rec.CountAt(core.ErrorLevel))
}

func TestLogger_ServerErrorAtError(t *testing.T) {
	rec := logtest.InstallGlobal(t)
	get(newEngine(), "/broken")

	assert.True(t, rec.Has(core.ErrorLevel, "Failed Endpoint: GET /broken Error - db down."))
	assert.Empty(t, rec.Find("Finished Endpoint"))
}

func TestLogger_RedirectSilent(t *testing.T) {
	rec := logtest.InstallGlobal(t)
	get(newEngine(), "/moved")

	assert.Len(t, rec.Find("Call Endpoint: GET /moved"), 1)
	assert.Empty(t, rec.Find("Finished Endpoint"))
	assert.Empty(t, rec.Find("Failed Endpoint"))
}

func TestLogger_SkipPaths(t *testing.T) {
	rec := logtest.InstallGlobal(t)
	get(newEngine(), "/healthz")

	assert.Equal(t, 0, rec.Len())
}
