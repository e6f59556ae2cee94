package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eursukkul/restaurant-booking/config"
	"github.com/Eursukkul/restaurant-booking/internal/cache"
	"github.com/Eursukkul/restaurant-booking/internal/dto"
	"github.com/Eursukkul/restaurant-booking/internal/events"
	"github.com/Eursukkul/restaurant-booking/internal/handler"
	"github.com/Eursukkul/restaurant-booking/internal/middleware"
	"github.com/Eursukkul/restaurant-booking/internal/repository"
	"github.com/Eursukkul/restaurant-booking/internal/service"
	"github.com/Eursukkul/restaurant-booking/pkg/database"
	"github.com/Eursukkul/restaurant-booking/pkg/logger"
	"github.com/Eursukkul/restaurant-booking/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

const serviceName = "restaurant-booking"

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	for _, w := range cfg.Warnings {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(database.Options{
		Driver:          cfg.DBDriver,
		DSN:             cfg.DSN(),
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}
	if err := database.Seed(db, database.SeedOptions{
		AdminPassword: cfg.SeedAdminPassword,
		KasirPassword: cfg.SeedKasirPassword,
	}); err != nil {
		log.WithError(err).Fatal("failed to seed database")
	}
	log.WithField("driver", cfg.DBDriver).Info("database ready")

	// RabbitMQ publisher: optional, events are dropped when unset
	var publisher events.Publisher
	if cfg.RabbitURL != "" {
		mq, err := rabbitmq.NewPublisher(cfg.RabbitURL, log)
		if err != nil {
			log.WithError(err).Warn("rabbitmq unavailable, domain events disabled")
		} else {
			defer mq.Close()
			publisher = mq
		}
	}

	// Repositories
	tableRepo := repository.NewTableRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	var menuRepo repository.MenuRepository = repository.NewMenuRepository(db)

	if cfg.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(ctx, cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.WithError(err).Warn("redis unavailable, menu cache disabled")
		} else {
			defer rdb.Close()
			menuRepo = cache.NewCachedMenuRepository(menuRepo, rdb, cfg.MenuCacheTTL, log)
		}
	}

	// Services
	loc, err := cfg.Location()
	if err != nil {
		log.WithError(err).Warn("falling back to UTC")
	}
	tableSvc := service.NewTableService(tableRepo)
	availSvc := service.NewAvailabilityService(tableRepo, bookingRepo)
	menuSvc := service.NewMenuService(menuRepo, publisher, log)
	bookingSvc := service.NewBookingService(bookingRepo, tableRepo, publisher, log)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.NewErrorHandler(log)
	e.Validator = middleware.NewValidator()
	e.Use(echoMw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMw.CORS())
	e.Use(middleware.RateLimiter(cfg.RateLimitRPS))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Service: serviceName})
	})

	api := e.Group("/api")
	handler.NewMenuHandler(menuSvc).RegisterRoutes(api)
	handler.NewTableHandler(tableSvc, availSvc, loc).RegisterRoutes(api)
	handler.NewBookingHandler(bookingSvc, loc).RegisterRoutes(api)

	go func() {
		log.WithField("port", cfg.ServerPort).Infof("%s starting", serviceName)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
