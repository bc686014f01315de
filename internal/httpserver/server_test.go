package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/checkout"
	"github.com/Skotchmaster/storefront/internal/dbtest"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	jwthelp "github.com/Skotchmaster/storefront/pkg/jwt"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

var (
	accessSecret  = []byte("test-access")
	refreshSecret = []byte("test-refresh")
)

type outbox struct {
	mu   sync.Mutex
	msgs []notify.Message
	err  error
}

func (o *outbox) Send(_ context.Context, m notify.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.msgs = append(o.msgs, m)
	return nil
}

var codeTag = regexp.MustCompile(`<code>([^<]+)</code>`)

// lastCode returns the code quoted in the most recent mail.
func (o *outbox) lastCode(t *testing.T) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.msgs)
	m := codeTag.FindStringSubmatch(o.msgs[len(o.msgs)-1].HTML)
	require.Len(t, m, 2)
	return m[1]
}

func (o *outbox) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.msgs)
}

type testServer struct {
	e    *echo.Echo
	db   *gorm.DB
	mail *outbox
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := dbtest.Open(t)
	r := repo.New(db)
	mail := &outbox{}
	n := notify.New(mail, "ops@example.com")
	n.Backoff = time.Millisecond
	reg := prometheus.NewRegistry()

	authSvc := &service.AuthService{Repo: r, AccessSecret: accessSecret, RefreshSecret: refreshSecret, Mailer: n}
	e := New(Options{Logger: logging.NewWithWriter(io.Discard, "error")})
	Register(e, &Deps{
		Auth:      &AuthHTTP{Svc: authSvc},
		Catalog:   &CatalogHTTP{Svc: &service.CatalogService{Repo: r}},
		Cart:      &CartHTTP{Svc: &service.CartService{Repo: r}},
		Favorites: &FavoritesHTTP{Svc: &service.FavoritesService{Repo: r}},
		Delivery:  &DeliveryHTTP{Svc: &service.DeliveryService{Repo: r}},
		Orders:    &OrderHTTP{Svc: &service.OrderService{Repo: r, Notifier: n}},
		Checkout: &CheckoutHTTP{Orchestrator: &checkout.Orchestrator{
			Tx: r, Users: r, Delivery: r,
			Notifier:      n,
			Guard:         checkout.NoopGuard{},
			Metrics:       checkout.NewMetrics(reg),
			NotifyTimeout: time.Second,
		}},
		Contact:   &ContactHTTP{Svc: &service.ContactService{Mailer: n}},
		JWTSecret: accessSecret,
		Refresher: authSvc,
		Ready:     func(context.Context) error { return nil },
		Gatherer:  reg,
	})
	return &testServer{e: e, db: db, mail: mail}
}

// session returns an access cookie for u.
func session(t *testing.T, u *models.User) *http.Cookie {
	t.Helper()
	exp := time.Now().Add(time.Minute)
	tok, err := tokens.CreateAccessToken(accessSecret, u.ID.String(), u.Role, exp)
	require.NoError(t, err)
	return jwthelp.CreateCookie(jwthelp.AccessCookie, tok, "/", exp)
}

func (s *testServer) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}
