package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
)

type Deps struct {
	Auth      *AuthHTTP
	Catalog   *CatalogHTTP
	Cart      *CartHTTP
	Favorites *FavoritesHTTP
	Delivery  *DeliveryHTTP
	Orders    *OrderHTTP
	Checkout  *CheckoutHTTP
	Contact   *ContactHTTP

	JWTSecret []byte
	Refresher middleware.Refresher

	// Ready backs /health/ready, usually a database ping.
	Ready    func(ctx context.Context) error
	Gatherer prometheus.Gatherer
}

type Options struct {
	Logger      *slog.Logger
	CSRFEnabled bool
}

// New builds the echo instance with the common middleware chain.
func New(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler
	e.Pre(ecM.RemoveTrailingSlash())

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e.Use(ecM.Recover())
	e.Use(ecM.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(ecM.CORSWithConfig(ecM.CORSConfig{
		AllowCredentials: true,
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			IdempotencyKeyHeader, "X-CSRF-Token",
		},
	}))
	e.Use(ecM.Secure())
	if opts.CSRFEnabled {
		cfg := csrf.DefaultConfig()
		cfg.SkipPaths = []string{"/health/live", "/health/ready", "/metrics"}
		e.Use(csrf.Middleware(cfg))
	}
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := d.Ready(ctx); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.Refresher)
	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)
	auth.POST("/reset-password", d.Auth.RequestPasswordReset)
	auth.POST("/reset-password/confirm", d.Auth.ResetPassword)
	auth.DELETE("/account", d.Auth.DeleteAccount, authMW.RequireAuth)

	products := api.Group("/products")
	products.GET("", d.Catalog.List)
	products.GET("/search", d.Catalog.Search)
	products.GET("/:id", d.Catalog.Get)
	products.POST("", d.Catalog.Create, authMW.RequireAdmin)
	products.PATCH("/:id", d.Catalog.Update, authMW.RequireAdmin)
	products.DELETE("/:id", d.Catalog.Delete, authMW.RequireAdmin)

	cart := api.Group("/cart", authMW.RequireAuth)
	cart.GET("", d.Cart.GetCart)
	cart.POST("", d.Cart.AddToCart)
	cart.DELETE("/items", d.Cart.DeleteOneFromCart)
	cart.PATCH("/items/:id", d.Cart.UpdateItem)
	cart.DELETE("/items/:id", d.Cart.RemoveItem)
	cart.POST("/clear", d.Cart.Clear)
	cart.GET("/count", d.Cart.Count)

	favorites := api.Group("/favorites", authMW.RequireAuth)
	favorites.GET("", d.Favorites.List)
	favorites.POST("", d.Favorites.Add)
	favorites.DELETE("/:product_id", d.Favorites.Remove)

	delivery := api.Group("/delivery", authMW.RequireAuth)
	delivery.GET("", d.Delivery.Get)
	delivery.PUT("", d.Delivery.Save)
	delivery.POST("", d.Delivery.Save)

	orders := api.Group("/orders", authMW.RequireAuth)
	orders.GET("", d.Orders.List)
	orders.GET("/:id", d.Orders.Get)
	orders.POST("/:id/payment", d.Orders.ConfirmPayment)
	api.PATCH("/orders/:id/status", d.Orders.UpdateStatus, authMW.RequireAdmin)

	api.POST("/contact", d.Contact.Send)

	e.POST("/checkout", d.Checkout.Checkout, authMW.RequireAuth)
}
