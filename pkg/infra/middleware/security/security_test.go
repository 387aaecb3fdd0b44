package security

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	transporthttp "github.com/kart-io/launchpad/pkg/infra/server/transport/http"
	mwopts "github.com/kart-io/launchpad/pkg/options/middleware"
)

func serve(t *testing.T, r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHeaders_PlainRequestSkipsHSTS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(transporthttp.Compat(false), Headers(*mwopts.NewSecurityHeadersOptions()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(t, r, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Empty(t, w.Header().Get(HeaderStrictTransportSecurity))
	assert.Equal(t, "SAMEORIGIN", w.Header().Get(HeaderXFrameOptions))
	assert.Equal(t, "nosniff", w.Header().Get(HeaderXContentTypeOptions))
	assert.Equal(t, "0", w.Header().Get(HeaderXXSSProtection))
	assert.Equal(t, "no-referrer", w.Header().Get(HeaderReferrerPolicy))
}

func TestHeaders_EncryptedSendsHSTS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	forwarded := gin.New()
	forwarded.Use(transporthttp.Compat(false), Headers(*mwopts.NewSecurityHeadersOptions()))
	forwarded.GET("/", func(c *gin.Context) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w := serve(t, forwarded, req)
	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get(HeaderStrictTransportSecurity))

	assumed := gin.New()
	assumed.Use(transporthttp.Compat(true), Headers(*mwopts.NewSecurityHeadersOptions()))
	assumed.GET("/", func(c *gin.Context) {})

	w = serve(t, assumed, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(HeaderStrictTransportSecurity))
}

func TestCORS_InvalidPolicy(t *testing.T) {
	_, err := CORS(mwopts.CORSOptions{AllowOrigins: []string{"*"}, AllowCredentials: true})
	assert.Error(t, err)

	_, err = CORS(mwopts.CORSOptions{})
	assert.Error(t, err)
}

func TestCORS_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	opts := mwopts.NewCORSOptions()
	opts.AllowOrigins = []string{"https://app.example.com"}
	mw, err := CORS(*opts)
	require.NoError(t, err)

	r := gin.New()
	r.Use(mw)
	r.GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/items", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := serve(t, r, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	opts := mwopts.NewCORSOptions()
	opts.AllowOrigins = []string{"https://app.example.com"}
	mw, err := CORS(*opts)
	require.NoError(t, err)

	r := gin.New()
	r.Use(mw)
	r.GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := serve(t, r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
