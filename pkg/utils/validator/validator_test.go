package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createTenantRequest struct {
	Name string `json:"name" binding:"required,trimmed"`
	Slug string `json:"slug" binding:"required,slug"`
}

type appSection struct {
	Prefix string `mapstructure:"prefix" validate:"urlprefix"`
	Port   int    `mapstructure:"port" validate:"gte=0,lte=65535"`
}

func TestValidateWithLang(t *testing.T) {
	v := NewBinding()

	ve := v.ValidateWithLang(&createTenantRequest{Name: " acme", Slug: "Bad Slug"}, LangEN)
	require.True(t, ve.HasErrors())
	fields := ve.ByField()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "slug")
	assert.Contains(t, fields["slug"][0], "URL slug")

	ve = v.ValidateWithLang(&createTenantRequest{}, LangZH)
	require.True(t, ve.HasErrors())
	assert.Contains(t, ve.First(), "必填")
}

func TestCustomRules(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(&appSection{Prefix: "api/v1", Port: 3000}))
	assert.NoError(t, v.Validate(&appSection{Prefix: "", Port: 0}))
	assert.Error(t, v.Validate(&appSection{Prefix: "/api", Port: 3000}))
	assert.Error(t, v.Validate(&appSection{Prefix: "api", Port: 70000}))
}

func TestNewPipe_LanguageFallback(t *testing.T) {
	assert.Equal(t, LangEN, NewPipe(nil, "").Language())
	assert.Equal(t, LangEN, NewPipe(nil, "fr").Language())
	assert.Equal(t, LangZH, NewPipe(nil, LangZH).Language())
}

func TestPipe_ValidateStruct(t *testing.T) {
	v := NewBinding()
	p := NewPipe(v, LangEN)

	assert.NoError(t, p.ValidateStruct(nil))
	assert.NoError(t, p.ValidateStruct(&createTenantRequest{Name: "acme", Slug: "acme"}))

	err := p.ValidateStruct(&createTenantRequest{})
	var ve *ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 2)

	err = p.ValidateStruct([]createTenantRequest{{Name: "ok", Slug: "ok"}, {}})
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 2)
}

func TestInstall_GinBinding(t *testing.T) {
	gin.SetMode(gin.TestMode)
	previous := binding.Validator
	t.Cleanup(func() { binding.Validator = previous })

	v := NewBinding()
	Install(NewPipe(v, LangEN))

	r := gin.New()
	var bindErr error
	r.POST("/tenants", func(c *gin.Context) {
		var req createTenantRequest
		bindErr = c.ShouldBindJSON(&req)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tenants", bytes.NewBufferString(`{"name":"acme"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var ve *ValidationErrors
	require.ErrorAs(t, bindErr, &ve)
	assert.Equal(t, "slug", ve.Errors[0].Field)
}
