package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/dbtest"
	"github.com/Skotchmaster/storefront/internal/models"
	jwthelp "github.com/Skotchmaster/storefront/pkg/jwt"
)

const registerBody = `{"email":"ana@example.com","password":"secret1","first_name":"Ana","last_name":"Anić",
"address":"Knez Mihailova 1","city":"Beograd","postal_code":"11000","phone":"+381601234567"}`

func cookie(rec interface{ Result() *http.Response }, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/register", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode(t, rec)["success"])
	assert.EqualValues(t, 1, dbtest.Count(t, s.db, &models.DeliveryInfo{}, ""))

	rec = s.do(t, http.MethodPost, "/api/auth/register", registerBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email_exists", decode(t, rec)["code"])

	rec = s.do(t, http.MethodPost, "/api/auth/register", `{"email":"x@example.com","password":"1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "validation", body["code"])

	rec = s.do(t, http.MethodPost, "/api/auth/register", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginRefreshLogout(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/auth/register", registerBody).Code)

	rec := s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", decode(t, rec)["code"])

	rec = s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	access := cookie(rec, jwthelp.AccessCookie)
	refresh := cookie(rec, jwthelp.RefreshCookie)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.True(t, access.HttpOnly)

	user := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, "ana@example.com", user["email"])

	// only the refresh cookie: the middleware renews the session transparently
	rec = s.do(t, http.MethodGet, "/api/cart", "", refresh)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	renewed := cookie(rec, jwthelp.RefreshCookie)
	require.NotNil(t, renewed)

	// the old refresh token was rotated away
	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", renewed)
	require.Equal(t, http.StatusOK, rec.Code)
	latest := cookie(rec, jwthelp.RefreshCookie)
	require.NotNil(t, latest)

	rec = s.do(t, http.MethodPost, "/api/auth/logout", "", latest)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", latest)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResetPasswordAndDeleteAccount(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	u := dbtest.User(t, s.db, "ana@example.com")

	unknown := s.do(t, http.MethodPost, "/api/auth/reset-password", `{"email":"nobody@example.com"}`)
	known := s.do(t, http.MethodPost, "/api/auth/reset-password", `{"email":"ana@example.com","lang":"en"}`)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, unknown.Code, known.Code)
	assert.JSONEq(t, unknown.Body.String(), known.Body.String())
	require.Equal(t, 1, s.mail.count())

	code := s.mail.lastCode(t)
	rec := s.do(t, http.MethodPost, "/api/auth/reset-password/confirm", `{"token":"guess"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_token", decode(t, rec)["code"])

	rec = s.do(t, http.MethodPost, "/api/auth/reset-password/confirm", `{"token":"`+code+`","lang":"en"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, s.mail.count())

	rec = s.do(t, http.MethodPost, "/api/auth/reset-password/confirm", `{"token":"`+code+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	buyer := dbtest.User(t, s.db, "buyer@example.com")
	require.NoError(t, s.db.Create(&models.Order{UserID: buyer.ID, IdempotencyKey: "k", Total: 1, Status: models.OrderPending}).Error)
	rec = s.do(t, http.MethodDelete, "/api/auth/account", "", session(t, buyer))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "has_orders", decode(t, rec)["code"])

	rec = s.do(t, http.MethodDelete, "/api/auth/account", "", session(t, u))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, dbtest.Count(t, s.db, &models.User{}, "id = ?", u.ID))
}
