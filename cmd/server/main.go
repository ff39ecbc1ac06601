// Command server runs the point-of-sale HTTP API.
//
// @title                       POS System API
// @version                     1.0
// @description                 Restaurant point-of-sale backend: menu, carts, checkout and dashboards.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/bistro/pos-system/docs"
	"github.com/bistro/pos-system/internal/api"
	"github.com/bistro/pos-system/internal/api/handler"
	"github.com/bistro/pos-system/internal/api/metrics"
	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
	"github.com/bistro/pos-system/internal/core/service"
	mongodb "github.com/bistro/pos-system/internal/infrastructure/db/mongo"
	redisdb "github.com/bistro/pos-system/internal/infrastructure/db/redis"
	"github.com/bistro/pos-system/internal/infrastructure/notifier"
	"github.com/bistro/pos-system/internal/infrastructure/queue"
	"github.com/bistro/pos-system/internal/pkg/config"
	"github.com/bistro/pos-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "pos-system",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	menuRepo := mongodb.NewMenuRepository(db)
	saleRepo := mongodb.NewSaleRepository(db)
	employeeRepo := mongodb.NewEmployeeRepository(db)
	inventoryRepo := mongodb.NewInventoryRepository(db)
	settingsRepo := mongodb.NewSettingsRepository(db)
	if err := mongodb.EnsureIndexes(ctx, menuRepo, saleRepo, employeeRepo, inventoryRepo); err != nil {
		return err
	}
	carts := redisdb.NewCartStore(rdb, cfg.Redis.CartTTL)
	idempotency := redisdb.NewIdempotencyStore(rdb)

	// --- Order notifications ---
	var notifiers []ports.OrderNotifier
	if cfg.Webhook.URL != "" {
		notifiers = append(notifiers, notifier.NewWebhook(notifier.WebhookConfig{
			URL:         cfg.Webhook.URL,
			Secret:      cfg.Webhook.Secret,
			Timeout:     cfg.Webhook.Timeout,
			MaxAttempts: cfg.Webhook.MaxAttempts,
		}, logger.Component("webhook")))
	}
	if cfg.AMQP.URL != "" {
		publisher, err := notifier.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, logger.Component("amqp"))
		if err != nil {
			return err
		}
		defer publisher.Close()
		notifiers = append(notifiers, publisher)
	}
	if len(notifiers) == 0 {
		log.Warn().Msg("no order notifier configured, orders will be marked skipped")
	}

	notificationService := service.NewNotificationService(saleRepo, notifiers, metrics.DeliveryObserver{}, logger.Component("notifications"))
	dispatcher := queue.NewDispatcher(cfg.Dispatch.Workers, notificationService, logger.Component("dispatcher"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher.Start(workerCtx)
	metrics.RegisterQueueDepth(dispatcher.Depth)
	metrics.RegisterDroppedNotifications(dispatcher.Dropped)

	// --- Use cases ---
	settingsService := service.NewSettingsService(settingsRepo, domain.Settings{
		RestaurantName: cfg.Register.RestaurantName,
		Currency:       cfg.Register.Currency,
		TaxRate:        cfg.Register.TaxRate,
	}, logger.Component("settings"))
	authService := service.NewAuthService(employeeRepo, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))

	if emp, err := authService.Bootstrap(ctx, cfg.BootstrapManagerPasscode); err != nil {
		return err
	} else if emp != nil {
		log.Info().Str("employee_id", emp.ID).Msg("bootstrap manager created")
	}

	services := api.Services{
		Auth:      authService,
		Menu:      service.NewMenuService(menuRepo, logger.Component("menu")),
		Cart:      service.NewCartService(carts, menuRepo, settingsService, logger.Component("carts")),
		Checkout:  service.NewCheckoutService(carts, saleRepo, inventoryRepo, settingsService, idempotency, dispatcher, logger.Component("checkout")),
		Sales:     service.NewSalesService(saleRepo),
		Inventory: service.NewInventoryService(inventoryRepo, logger.Component("inventory")),
		Employees: service.NewEmployeeService(employeeRepo, logger.Component("employees")),
		Settings:  settingsService,
	}

	e := api.NewRouter(services, api.Options{
		JWTSecret:          cfg.JWTSecret,
		LoginRatePerMinute: cfg.LoginRatePerMinute,
		Logger:             logger.Component("http"),
		Health: map[string]handler.Pinger{
			"mongodb": handler.MongoPinger(db),
			"redis":   handler.RedisPinger(rdb),
		},
	})

	// --- Serve ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// Deliver what is queued, bounded by the timeout. A handler that outlived
	// the HTTP shutdown has its late notification dropped and logged.
	dispatcher.Stop()
	drained := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-shutdownCtx.Done():
		log.Warn().Int("pending", dispatcher.Depth()).Msg("notification drain timed out")
	}
	stopWorkers()
	log.Info().Msg("server stopped cleanly")
	return nil
}
