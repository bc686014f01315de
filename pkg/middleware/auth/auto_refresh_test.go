package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwthelp "github.com/Skotchmaster/storefront/pkg/jwt"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

var secret = []byte("test-access")

type fakeRefresher struct {
	pair  *tokens.Pair
	err   error
	calls int
}

func (f *fakeRefresher) Refresh(_ context.Context, _ string) (*tokens.Pair, error) {
	f.calls++
	return f.pair, f.err
}

func accessToken(t *testing.T, sub, role string, exp time.Time) string {
	t.Helper()
	tok, err := tokens.CreateAccessToken(secret, sub, role, exp)
	require.NoError(t, err)
	return tok
}

func serve(m echo.MiddlewareFunc, req *http.Request) (echo.Context, *httptest.ResponseRecorder, error) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := m(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return c, rec, err
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}

func TestRequireAuth_ValidToken(t *testing.T) {
	t.Parallel()
	m := NewAutoRefreshMiddleware(secret, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: jwthelp.AccessCookie, Value: accessToken(t, "u1", "user", time.Now().Add(time.Minute))})

	c, _, err := serve(m.RequireAuth, req)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.Get(UserIDKey))
	assert.Equal(t, "user", c.Get(RoleKey))
}

func TestRequireAuth_NoCookies(t *testing.T) {
	t.Parallel()
	m := NewAutoRefreshMiddleware(secret, &fakeRefresher{})
	_, _, err := serve(m.RequireAuth, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	t.Parallel()
	m := NewAutoRefreshMiddleware(secret, &fakeRefresher{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: jwthelp.AccessCookie, Value: "garbage"})
	_, _, err := serve(m.RequireAuth, req)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestRequireAuth_ExpiredRefreshes(t *testing.T) {
	t.Parallel()
	fresh := accessToken(t, "u2", "user", time.Now().Add(time.Minute))
	r := &fakeRefresher{pair: &tokens.Pair{
		AccessToken:  fresh,
		RefreshToken: "new-refresh",
		AccessExp:    time.Now().Add(time.Minute),
		RefreshExp:   time.Now().Add(time.Hour),
	}}
	m := NewAutoRefreshMiddleware(secret, r)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: jwthelp.AccessCookie, Value: accessToken(t, "u2", "user", time.Now().Add(-time.Minute))})
	req.AddCookie(&http.Cookie{Name: jwthelp.RefreshCookie, Value: "old-refresh"})

	c, rec, err := serve(m.RequireAuth, req)
	require.NoError(t, err)
	assert.Equal(t, 1, r.calls)
	assert.Equal(t, "u2", c.Get(UserIDKey))
	assert.Len(t, rec.Result().Cookies(), 2)
}

func TestRequireAuth_RefreshFails(t *testing.T) {
	t.Parallel()
	m := NewAutoRefreshMiddleware(secret, &fakeRefresher{err: errors.New("revoked")})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: jwthelp.AccessCookie, Value: accessToken(t, "u2", "user", time.Now().Add(-time.Minute))})
	req.AddCookie(&http.Cookie{Name: jwthelp.RefreshCookie, Value: "old-refresh"})

	_, _, err := serve(m.RequireAuth, req)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()
	m := NewAutoRefreshMiddleware(secret, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: jwthelp.AccessCookie, Value: accessToken(t, "u1", "user", time.Now().Add(time.Minute))})
	_, _, err := serve(m.RequireAdmin, req)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: jwthelp.AccessCookie, Value: accessToken(t, "a1", "admin", time.Now().Add(time.Minute))})
	_, _, err = serve(m.RequireAdmin, req)
	require.NoError(t, err)
}
