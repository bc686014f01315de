package httpserver

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/dbtest"
	"github.com/Skotchmaster/storefront/internal/models"
)

func pendingOrder(t *testing.T, s *testServer, u *models.User, p *models.Product, qty uint) *models.Order {
	t.Helper()
	o := &models.Order{
		UserID: u.ID, IdempotencyKey: uuid.NewString(), Total: p.Price * int64(qty), Status: models.OrderPending,
		Items: []models.OrderItem{{ProductID: p.ID, Quantity: qty, UnitPrice: p.Price, LineTotal: p.Price * int64(qty), NameSR: p.NameSR}},
	}
	require.NoError(t, s.db.Create(o).Error)
	return o
}

func TestOrders_ListGetPay(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	u := dbtest.User(t, s.db, "a@example.com")
	other := dbtest.User(t, s.db, "b@example.com")
	p := dbtest.Product(t, s.db, "A", 1000, 10)
	o := pendingOrder(t, s, u, p, 2)

	rec := s.do(t, http.MethodGet, "/api/orders", "", session(t, u))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["total"])

	rec = s.do(t, http.MethodGet, "/api/orders/"+o.ID.String(), "", session(t, other))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/orders/"+o.ID.String()+"/payment", "", session(t, u))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.OrderCompleted, decode(t, rec)["status"])
	assert.Equal(t, 2, s.mail.count())

	rec = s.do(t, http.MethodPost, "/api/orders/"+o.ID.String()+"/payment", "", session(t, u))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOrders_AdminCancel(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	u := dbtest.User(t, s.db, "a@example.com")
	admin := dbtest.User(t, s.db, "admin@example.com")
	admin.Role = models.RoleAdmin
	p := dbtest.Product(t, s.db, "A", 1000, 1)
	o := pendingOrder(t, s, u, p, 2)
	path := "/api/orders/" + o.ID.String() + "/status"

	rec := s.do(t, http.MethodPatch, path, `{"status":"cancelled"}`, session(t, u))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPatch, path, `{"status":"cancelled"}`, session(t, admin))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 3, dbtest.Stock(t, s.db, p.ID))
}
