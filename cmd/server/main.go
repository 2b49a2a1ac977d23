package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/group-seat-booking/internal/booking"
	"github.com/iliyamo/group-seat-booking/internal/config"
	"github.com/iliyamo/group-seat-booking/internal/database"
	"github.com/iliyamo/group-seat-booking/internal/handler"
	"github.com/iliyamo/group-seat-booking/internal/logger"
	"github.com/iliyamo/group-seat-booking/internal/middleware"
	"github.com/iliyamo/group-seat-booking/internal/queue"
	"github.com/iliyamo/group-seat-booking/internal/repository"
	"github.com/iliyamo/group-seat-booking/internal/router"
	"github.com/iliyamo/group-seat-booking/internal/service"
	"github.com/iliyamo/group-seat-booking/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seat-booking: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:       cfg.Telemetry.Enabled,
		ServiceName:   cfg.Telemetry.ServiceName,
		Environment:   cfg.Env,
		CollectorAddr: cfg.Telemetry.Endpoint,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	db, dialect, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx, db, dialect); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	log.Info("database ready", zap.String("driver", string(dialect)))

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		log.Warn("redis unavailable; rate limiting and response cache disabled", zap.String("addr", cfg.Redis.Address()))
	} else {
		defer rdb.Close()
	}

	movies := repository.NewMovieRepo(db, dialect)
	theaters := repository.NewTheaterRepo(db, dialect)
	halls := repository.NewHallRepo(db, dialect)
	screenings := repository.NewScreeningRepo(db, dialect)
	inventory := repository.NewInventoryRepo(db, dialect)

	opts := []booking.Option{booking.WithSuggestionWindow(cfg.Booking.SuggestionWindow)}
	if cfg.Queue.Enabled {
		opts = append(opts, booking.WithPublisher(service.NewPublisher(cfg.Queue.URL, log)))
	}
	coordinator := booking.NewCoordinator(inventory, log, opts...)
	queries := booking.NewQueries(inventory)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(log))

	router.RegisterRoutes(e, &handler.Health{DB: db})
	router.RegisterCatalog(e, handler.NewCatalogHandler(movies, theaters, halls, screenings, log))
	router.RegisterBooking(e,
		handler.NewBookingHandler(coordinator, queries, log),
		middleware.NewTokenBucket(cfg.RateLimit, rdb, log),
		middleware.NewRedisCache(cfg.Cache, rdb, log),
	)

	if cfg.Queue.ConsumerEnabled {
		consumer := &queue.Consumer{URL: cfg.Queue.URL, LogDir: cfg.Queue.LogDir, Log: log}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("booking consumer stopped", zap.Error(err))
			}
		}()
	}

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	if err := coordinator.Close(shutdownCtx); err != nil {
		log.Warn("pending booking events not flushed", zap.Error(err))
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		log.Warn("telemetry shutdown", zap.Error(err))
	}
	return nil
}
