package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/bluecascade/tilestore/internal/middleware"
	auth "github.com/bluecascade/tilestore/internal/usecase/auth_usecase"
)

func newTestRequest(t *testing.T, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestBearerToken(t *testing.T) {
	e := echo.New()

	newCtx := func(authz string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		return e.NewContext(req, httptest.NewRecorder())
	}

	_, ok := middleware.BearerToken(newCtx(""))
	assert.False(t, ok)

	_, ok = middleware.BearerToken(newCtx("Basic dXNlcg=="))
	assert.False(t, ok)

	_, ok = middleware.BearerToken(newCtx("Bearer "))
	assert.False(t, ok)

	token, ok := middleware.BearerToken(newCtx("Bearer abc.def.ghi"))
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", token)

	// scheme matching is case-insensitive
	token, ok = middleware.BearerToken(newCtx("bearer abc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", token)
}

func TestRequireAuth_MissingToken(t *testing.T) {
	issuer := auth.NewTokenIssuer([]byte("secret"), time.Hour)
	c, rec := newTestRequest(t, "")

	err := middleware.RequireAuth(issuer)(okHandler)(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	issuer := auth.NewTokenIssuer([]byte("secret"), time.Hour)
	c, rec := newTestRequest(t, "garbage")

	err := middleware.RequireAuth(issuer)(okHandler)(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	issuer := auth.NewTokenIssuer([]byte("secret"), time.Hour)
	token, _, err := issuer.Issue(1, "admin", time.Now().Add(-2*time.Hour))
	assert.NoError(t, err)

	c, rec := newTestRequest(t, token)

	err = middleware.RequireAuth(issuer)(okHandler)(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token expired")
}

func TestRequireAuth_ValidToken_SetsIdentity(t *testing.T) {
	issuer := auth.NewTokenIssuer([]byte("secret"), time.Hour)
	token, _, err := issuer.Issue(7, "admin", time.Now())
	assert.NoError(t, err)

	c, rec := newTestRequest(t, token)

	called := false
	next := func(c echo.Context) error {
		called = true

		id, ok := middleware.AdminID(c)
		assert.True(t, ok)
		assert.Equal(t, int64(7), id)
		assert.True(t, middleware.IsAdmin(c))
		assert.Equal(t, "admin", c.Get(middleware.CtxAdminUsernameKey))

		return c.NoContent(http.StatusOK)
	}

	err = middleware.RequireAuth(issuer)(next)(c)
	assert.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	issuer := auth.NewTokenIssuer([]byte("secret"), time.Hour)
	c, rec := newTestRequest(t, "")

	err := middleware.OptionalAuth(issuer)(func(c echo.Context) error {
		assert.False(t, middleware.IsAdmin(c))
		return c.NoContent(http.StatusOK)
	})(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuth_BadTokenIgnored(t *testing.T) {
	issuer := auth.NewTokenIssuer([]byte("secret"), time.Hour)
	c, rec := newTestRequest(t, "garbage")

	err := middleware.OptionalAuth(issuer)(func(c echo.Context) error {
		assert.False(t, middleware.IsAdmin(c))
		return c.NoContent(http.StatusOK)
	})(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuth_ValidTokenSetsIdentity(t *testing.T) {
	issuer := auth.NewTokenIssuer([]byte("secret"), time.Hour)
	token, _, err := issuer.Issue(3, "admin", time.Now())
	assert.NoError(t, err)

	c, _ := newTestRequest(t, token)

	err = middleware.OptionalAuth(issuer)(func(c echo.Context) error {
		id, ok := middleware.AdminID(c)
		assert.True(t, ok)
		assert.Equal(t, int64(3), id)
		return c.NoContent(http.StatusOK)
	})(c)
	assert.NoError(t, err)
}
