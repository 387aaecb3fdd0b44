package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/launchpad/pkg/infra/logger/logtest"
	jwtopts "github.com/kart-io/launchpad/pkg/options/jwt"
	"github.com/kart-io/launchpad/pkg/security/authz/roles"
	"github.com/kart-io/launchpad/pkg/utils/errors"
)

const testKey = "0123456789abcdef0123456789abcdef"

type roleType string

const (
	admin   roleType = "ADMIN"
	regular roleType = "REGULAR"
)

func newAuthenticator(t *testing.T, mutate ...func(*jwtopts.Options)) *Authenticator[roleType] {
	t.Helper()
	opts := jwtopts.NewOptions()
	opts.Key = testKey
	for _, m := range mutate {
		m(opts)
	}
	a, err := New[roleType](opts)
	require.NoError(t, err)
	return a
}

func signRaw(t *testing.T, method jwt.SigningMethod, key string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New[roleType](nil)
	assert.ErrorIs(t, err, errors.ErrConfigMissing)

	opts := jwtopts.NewOptions()
	opts.Key = "short"
	_, err = New[roleType](opts)
	assert.ErrorContains(t, err, "jwt key must be at least 32 characters")
}

func TestSignVerify(t *testing.T) {
	a := newAuthenticator(t)

	token, err := a.Sign("user-1", admin, regular)
	require.NoError(t, err)

	payload, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", payload.Subject)
	assert.Equal(t, []roles.Role[roleType]{{RoleType: admin}, {RoleType: regular}}, payload.Roles)

	token, err = a.Sign("user-2")
	require.NoError(t, err)
	payload, err = a.Verify(token)
	require.NoError(t, err)
	assert.NotNil(t, payload.Roles)
	assert.Empty(t, payload.Roles)
}

func TestVerify_MissingRolesClaim(t *testing.T) {
	a := newAuthenticator(t)
	token := signRaw(t, jwt.SigningMethodHS256, testKey, jwt.MapClaims{
		"sub": "user-1",
		"iss": jwtopts.DefaultIssuer,
		"exp": time.Now().Add(time.Minute).Unix(),
	})

	payload, err := a.Verify(token)
	require.NoError(t, err)
	assert.Nil(t, payload.Roles)
}

func TestVerify_CustomRolesClaim(t *testing.T) {
	a := newAuthenticator(t, func(o *jwtopts.Options) { o.RolesClaim = "permissions" })
	token := signRaw(t, jwt.SigningMethodHS256, testKey, jwt.MapClaims{
		"iss":         jwtopts.DefaultIssuer,
		"exp":         time.Now().Add(time.Minute).Unix(),
		"permissions": []map[string]string{{"roleType": "ADMIN"}},
	})

	payload, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, []roles.Role[roleType]{{RoleType: admin}}, payload.Roles)
}

func TestVerify_Rejected(t *testing.T) {
	a := newAuthenticator(t)
	valid := jwt.MapClaims{"iss": jwtopts.DefaultIssuer, "exp": time.Now().Add(time.Minute).Unix()}

	tests := []struct {
		name    string
		token   string
		message string
	}{
		{"empty", "", "Unauthorized"},
		{"malformed", "not-a-token", "malformed token"},
		{"wrong key", signRaw(t, jwt.SigningMethodHS256, "fedcba9876543210fedcba9876543210", valid), "invalid signature"},
		{"wrong algorithm", signRaw(t, jwt.SigningMethodHS384, testKey, valid), "invalid signature"},
		{"expired", signRaw(t, jwt.SigningMethodHS256, testKey, jwt.MapClaims{
			"iss": jwtopts.DefaultIssuer,
			"exp": time.Now().Add(-time.Minute).Unix(),
		}), "Token expired"},
		{"wrong issuer", signRaw(t, jwt.SigningMethodHS256, testKey, jwt.MapClaims{
			"iss": "someone-else",
			"exp": time.Now().Add(time.Minute).Unix(),
		}), "unexpected token issuer"},
		{"malformed roles", signRaw(t, jwt.SigningMethodHS256, testKey, jwt.MapClaims{
			"iss":   jwtopts.DefaultIssuer,
			"exp":   time.Now().Add(time.Minute).Unix(),
			"roles": "ADMIN",
		}), "malformed roles claim"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Verify(tt.token)
			require.Error(t, err)
			e := errors.FromError(err)
			assert.Equal(t, http.StatusUnauthorized, e.HTTPStatus())
			assert.Equal(t, tt.message, e.Message("en"))
		})
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logtest.InstallGlobal(t)
	a := newAuthenticator(t)
	checker := roles.NewTokenChecker[roleType](logtest.New())

	var failure error
	r := gin.New()
	r.Use(func(c *gin.Context) {
		failure = nil
		c.Next()
		if len(c.Errors) > 0 {
			failure = c.Errors.Last().Err
		}
	}, a.Middleware())
	r.GET("/admin", roles.RequireAny(checker, admin), func(c *gin.Context) {
		user, _ := roles.CurrentUser[roleType](c)
		c.String(http.StatusOK, user.Subject)
	})

	adminToken, err := a.Sign("root", admin)
	require.NoError(t, err)
	userToken, err := a.Sign("alice", regular)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   *errors.Errno
	}{
		{"admin", "Bearer " + adminToken, nil},
		{"lowercase scheme", "bearer " + adminToken, nil},
		{"missing header", "", errors.ErrUnauthorized},
		{"basic scheme", "Basic dXNlcjpwYXNz", errors.ErrUnauthorized},
		{"bad token", "Bearer garbage", errors.ErrInvalidToken},
		{"insufficient role", "Bearer " + userToken, errors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if tt.want == nil {
				require.NoError(t, failure)
				assert.Equal(t, "root", w.Body.String())
				return
			}
			assert.ErrorIs(t, failure, tt.want)
		})
	}
}
