package interceptor

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/launchpad/pkg/infra/logger/logtest"
	"github.com/kart-io/launchpad/pkg/infra/middleware"
	mwopts "github.com/kart-io/launchpad/pkg/options/middleware"
	"github.com/kart-io/launchpad/pkg/utils/errors"
	"github.com/kart-io/launchpad/pkg/utils/json"
	"github.com/kart-io/launchpad/pkg/utils/response"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(*mwopts.NewRequestIDOptions(), nil), ErrorLogging(), Serialize())
	return r
}

func TestSerialize_WrapsResult(t *testing.T) {
	r := newEngine()
	r.GET("/item", func(c *gin.Context) { OK(c, gin.H{"id": "t1"}) })
	r.POST("/item", func(c *gin.Context) { Respond(c, http.StatusCreated, gin.H{"id": "t2"}) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/item", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var env response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, 0, env.Code)
	assert.Equal(t, "success", env.Message)
	assert.Equal(t, map[string]interface{}{"id": "t1"}, env.Data)
	assert.Equal(t, w.Header().Get("X-Request-ID"), env.RequestID)
	assert.NotZero(t, env.Timestamp)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/item", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSerialize_LeavesWrittenAndFailed(t *testing.T) {
	logtest.InstallGlobal(t)
	r := newEngine()
	r.GET("/raw", func(c *gin.Context) { c.String(http.StatusOK, "raw") })
	r.GET("/fail", func(c *gin.Context) {
		OK(c, "ignored")
		_ = c.Error(errors.ErrForbidden)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/raw", nil))
	assert.Equal(t, "raw", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Empty(t, w.Body.String())
}

func TestErrorLogging_Levels(t *testing.T) {
	rec := logtest.InstallGlobal(t)
	r := newEngine()
	r.GET("/client", func(c *gin.Context) { _ = c.Error(errors.ErrNotFound) })
	r.GET("/server", func(c *gin.Context) { _ = c.Error(stderrors.New("connection reset")) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/client", nil))
	assert.True(t, rec.Has(core.DebugLevel, "Request error"))
	assert.False(t, rec.Has(core.ErrorLevel, "Request error"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/server", nil))
	entries := rec.Find("Request error")
	last := entries[len(entries)-1]
	assert.Equal(t, core.ErrorLevel, last.Level)
	rid, ok := last.Field("request_id")
	assert.True(t, ok)
	assert.NotEmpty(t, rid)
}

func TestBindJSON_TooLarge(t *testing.T) {
	r := newEngine()
	var got error
	r.POST("/", func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 4)
		var v map[string]interface{}
		if !BindJSON(c, &v) {
			got = c.Errors.Last().Err
		}
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"too long"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, errors.IsCode(got, errors.ErrRequestTooLarge.Code))
}

func TestLanguage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[string]string{
		"":                "en",
		"zh-CN,zh;q=0.9":  "zh",
		"fr-FR, en;q=0.8": "en",
		"de":              "zh",
		"EN-us":           "en",
	}
	for header, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			c.Request.Header.Set("Accept-Language", header)
		}
		fallback := ""
		if header == "de" {
			fallback = "zh"
		}
		assert.Equal(t, want, Language(c, fallback), header)
	}
}
