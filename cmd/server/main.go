package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"canteen-be/internal/buyer"
	"canteen-be/internal/config"
	"canteen-be/internal/db"
	"canteen-be/internal/food"
	"canteen-be/internal/handler"
	"canteen-be/internal/logger"
	"canteen-be/internal/metrics"
	"canteen-be/internal/middleware"
	"canteen-be/internal/notify"
	"canteen-be/internal/order"
	"canteen-be/internal/vendor"

	"github.com/gin-gonic/gin"
	healthgo "github.com/hellofresh/health-go/v5"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	initDBFunc      = db.NewDatabase
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv, cfg.LogLevel, zap.Fields(zap.String("service", "canteen-be")))
	defer logger.Sync()
	log := logger.L()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	database, err := initDBFunc(cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	log.Info("database connection established", zap.String("driver", cfg.DBDriver))

	h, cleanup, err := newServer(cfg, database)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- startServerFunc(srv)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// newServer wires repositories, services and transports. The returned
// cleanup flushes pending notifications and stops background work.
func newServer(cfg *config.Config, database *sql.DB) (http.Handler, func(), error) {
	stats := metrics.NewRegistry()

	notifier, closeNotifier, err := notify.Build(cfg, stats)
	if err != nil {
		return nil, nil, err
	}

	health, err := healthgo.New(
		healthgo.WithComponent(healthgo.Component{
			Name:    "canteen-be",
			Version: "1.0.0",
		}),
		healthgo.WithChecks(healthgo.Config{
			Name:    "postgres",
			Timeout: 2 * time.Second,
			Check:   database.PingContext,
		}),
	)
	if err != nil {
		closeNotifier()
		return nil, nil, err
	}

	orderSvc := order.NewService(order.NewRepository(database), notifier, stats)
	vendorSvc := vendor.NewService(vendor.NewRepository(database))
	foodSvc := food.NewService(food.NewRepository(database))
	buyerSvc := buyer.NewService(buyer.NewRepository(database))

	router := handler.API(handler.Deps{
		Orders:  handler.NewOrderHandler(orderSvc),
		Vendors: handler.NewVendorHandler(vendorSvc),
		Foods:   handler.NewFoodHandler(foodSvc),
		Buyers:  handler.NewBuyerHandler(buyerSvc),
		Health:  health,
		Stats:   stats,
	})

	limiter := middleware.NewLimiter(cfg.InternalSecretKey)
	ctx, cancel := context.WithCancel(context.Background())
	go limiter.Cleanup(ctx, time.Minute)

	cleanup := func() {
		cancel()
		closeNotifier()
	}
	return setupRouter(router, cfg, limiter), cleanup, nil
}

// setupRouter wraps the API in the net/http middleware chain, outermost first.
func setupRouter(api http.Handler, cfg *config.Config, limiter *middleware.Limiter) http.Handler {
	var h http.Handler = api
	h = limiter.Middleware(h)
	h = middleware.AuthMiddleware([]byte(cfg.JWTSecret))(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)
	h = logger.LoggingMiddleware(h)
	h = logger.RequestIDMiddleware(h)
	return h
}
