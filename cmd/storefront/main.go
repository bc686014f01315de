package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/checkout"
	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/mykafka"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("storefront_stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.ServiceConfig, logger *slog.Logger) error {
	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		return fmt.Errorf("db init: %w", err)
	}
	defer db.Close(gdb)

	if err := gdb.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	r := repo.New(gdb)

	var events *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		events = mykafka.NewProducer(cfg.KafkaBrokers)
		defer events.Close()
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	var index service.ProductIndex
	if cfg.ESURL != "" {
		client, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			return err
		}
		index = &search.Index{Client: client, Name: cfg.ESIndex}
		logger.Info("search_index_enabled", "index", cfg.ESIndex)
	}

	var guard checkout.Guard = checkout.NoopGuard{}
	if cfg.RedisAddr != "" {
		rg := checkout.NewRedisGuard(cfg.RedisAddr, cfg.ServiceName)
		defer rg.Close()
		guard = rg
		logger.Info("checkout_guard_enabled", "redis", cfg.RedisAddr)
	}

	sender := &notify.SMTPSender{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.EmailUser,
		Password: cfg.EmailPass,
		From:     cfg.EmailUser,
	}
	if !cfg.MailConfigured() {
		logger.Warn("email_not_configured", "reason", "EMAIL_USER or EMAIL_PASS is empty, notifications will fail softly")
	}
	notifier := notify.New(sender, cfg.OperatorEmail)

	authSvc := &service.AuthService{
		Repo:          r,
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		Mailer:        notifier,
	}
	cartSvc := &service.CartService{Repo: r}
	orch := &checkout.Orchestrator{
		Tx:            r,
		Users:         r,
		Delivery:      r,
		Notifier:      notifier,
		Guard:         guard,
		Metrics:       checkout.NewMetrics(prometheus.DefaultRegisterer),
		NotifyTimeout: cfg.NotifyTimeout,
	}
	// interfaces stay nil when kafka is off
	if events != nil {
		cartSvc.Events = events
		orch.Events = events
	}

	e := httpserver.New(httpserver.Options{Logger: logger, CSRFEnabled: cfg.CSRFEnabled})
	httpserver.Register(e, &httpserver.Deps{
		Auth:      &httpserver.AuthHTTP{Svc: authSvc},
		Catalog:   &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r, Index: index}},
		Cart:      &httpserver.CartHTTP{Svc: cartSvc},
		Favorites: &httpserver.FavoritesHTTP{Svc: &service.FavoritesService{Repo: r}},
		Delivery:  &httpserver.DeliveryHTTP{Svc: &service.DeliveryService{Repo: r}},
		Orders:    &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: r, Notifier: notifier}},
		Checkout:  &httpserver.CheckoutHTTP{Orchestrator: orch},
		Contact:   &httpserver.ContactHTTP{Svc: &service.ContactService{Mailer: notifier}},
		JWTSecret: cfg.JWTAccessSecret,
		Refresher: authSvc,
		Ready:     pinger(gdb),
		Gatherer:  prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutdown_signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	logger.Info("server_stopped")
	return nil
}

func pinger(gdb *gorm.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
