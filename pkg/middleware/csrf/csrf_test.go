package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

func run(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, error) {
	t.Helper()
	return runWith(t, Config{}, req)
}

func runWith(t *testing.T, cfg Config, req *http.Request) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := Middleware(cfg)(okHandler)(c)
	return rec, err
}

func TestCSRF_GetIssuesToken(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec, err := run(t, req)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.Header().Get("X-CSRF-Token"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "XSRF-TOKEN=")
}

func TestCSRF_PostWithoutTokenRejected(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodPost, "http://example.com/checkout", nil)
	req.Header.Set("Origin", "http://example.com")
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})
	_, err := run(t, req)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestCSRF_PostCrossOriginRejected(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodPost, "http://example.com/checkout", nil)
	req.Header.Set("Origin", "http://evil.test")
	req.Header.Set("X-CSRF-Token", "tok")
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})
	_, err := run(t, req)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "invalid origin", he.Message)
}

func TestCSRF_ZeroConfigCookieIsSecure(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec, err := run(t, req)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
}

func TestCSRF_PartialConfigKeepsOriginCheck(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodPost, "http://example.com/checkout", nil)
	req.Header.Set("Origin", "http://evil.test")
	req.Header.Set("X-CSRF-Token", "tok")
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})
	_, err := runWith(t, Config{SkipPaths: []string{"/health/live"}}, req)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestCSRF_OptOuts(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodPost, "http://example.com/checkout", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("X-CSRF-Token", "tok")
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})
	rec, err := runWith(t, Config{AllowCrossOrigin: true, InsecureCookie: true}, req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.False(t, cookies[0].Secure)
}

func TestCSRF_PostWithMatchingToken(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodPost, "http://example.com/checkout", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("X-CSRF-Token", "tok")
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})
	rec, err := run(t, req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSecureCompare(t *testing.T) {
	t.Parallel()
	assert.False(t, secureCompare("", ""))
	assert.False(t, secureCompare("a", "ab"))
	assert.True(t, secureCompare("abc", "abc"))
}
