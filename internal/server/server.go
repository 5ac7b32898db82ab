// Package server boots every subsystem and runs the HTTP server.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/fastfood-api/app/controllers"
	"github.com/shashiranjanraj/fastfood-api/app/models"
	"github.com/shashiranjanraj/fastfood-api/app/notifications"
	"github.com/shashiranjanraj/fastfood-api/app/routes"
	"github.com/shashiranjanraj/fastfood-api/app/services"
	"github.com/shashiranjanraj/fastfood-api/config"
	"github.com/shashiranjanraj/fastfood-api/pkg/cache"
	"github.com/shashiranjanraj/fastfood-api/pkg/database"
	"github.com/shashiranjanraj/fastfood-api/pkg/logger"
	"github.com/shashiranjanraj/fastfood-api/pkg/metrics"
	"github.com/shashiranjanraj/fastfood-api/pkg/middleware"
	"github.com/shashiranjanraj/fastfood-api/pkg/reqid"
	"github.com/shashiranjanraj/fastfood-api/pkg/router"
	"github.com/shashiranjanraj/fastfood-api/pkg/sms"
	"github.com/shashiranjanraj/fastfood-api/pkg/storage"
	"github.com/shashiranjanraj/fastfood-api/pkg/ws"
)

// Start boots config, logging, database, cache, storage, and SMS, mounts
// the routes, and serves until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	mongoSink, err := logger.ConnectMongo()
	if err != nil {
		logger.Warn("mongo log sink unavailable", "error", err)
	}
	if mongoSink != nil {
		defer mongoSink.Close()
	}

	if err := database.Connect(); err != nil {
		return err
	}
	if err := database.DB.AutoMigrate(&models.Product{}, &models.Order{}); err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("falling back to in-memory cache", "error", err)
	}
	storage.Connect()

	hub := ws.NewHub()
	go hub.Run()

	sender := sms.FromConfig()
	notifier := notifications.NewOrderNotifier(sender, config.ManagerMobile())

	store := cache.Default
	productService := services.NewProductService(database.DB, store)
	orderService := services.NewOrderService(database.DB, store, notifier, hub)

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	routes.RegisterAPI(r, routes.Deps{
		Products:    controllers.NewProductController(productService, store),
		Orders:      controllers.NewOrderController(orderService, store, hub),
		Admin:       controllers.NewAdminController(store),
		APIKey:      config.AdminAPIKey(),
		StorageRoot: config.StorageLocalRoot(),
	})

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
