// Package main is the entry point for the Maple Planner API server.
// It wires dependencies together and runs the server. No business logic
// belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pkordes/maple-planner/internal/auth"
	"github.com/pkordes/maple-planner/internal/config"
	"github.com/pkordes/maple-planner/internal/handler"
	"github.com/pkordes/maple-planner/internal/jobs"
	"github.com/pkordes/maple-planner/internal/locations"
	"github.com/pkordes/maple-planner/internal/metrics"
	"github.com/pkordes/maple-planner/internal/middleware"
	"github.com/pkordes/maple-planner/internal/places"
	"github.com/pkordes/maple-planner/internal/repo"
	"github.com/pkordes/maple-planner/internal/search"
	"github.com/pkordes/maple-planner/internal/service"
	"github.com/pkordes/maple-planner/migrations"
	"github.com/pkordes/maple-planner/spec"
)

// sessionRetention keeps ended auth sessions around for a day before purging.
const sessionRetention = 24 * time.Hour

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// --- Config -----------------------------------------------------------
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("database connection established")

	if cfg.MigrateOnStart {
		sqlDB := stdlib.OpenDBFromPool(pool)
		n, err := migrations.Up(ctx, sqlDB)
		_ = sqlDB.Close()
		if err != nil {
			return err
		}
		logger.Info("migrations applied", "count", n)
	}

	// --- Search session store ---------------------------------------------
	var store search.Store
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		store = search.NewRedisStore(rdb, cfg.SearchSessionTTL)
		logger.Info("search sessions stored in redis")
	} else {
		store = search.NewMemoryStore()
		logger.Info("search sessions stored in memory")
	}

	// --- Places + search --------------------------------------------------
	m := metrics.New()
	placesClient := places.New(cfg.PlacesAPIKey,
		places.WithBaseURL(cfg.PlacesBaseURL),
		places.WithInterval(cfg.PlacesQueryInterval),
		places.WithObserver(m),
		places.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
	)
	images := search.NewImageChain(placesClient,
		search.NewHTTPValidator(&http.Client{Timeout: 5 * time.Second}), cfg.FallbackImageURL)
	aggregator := search.NewAggregator(placesClient, images, logger, m)

	// --- Services ---------------------------------------------------------
	users := repo.NewUserRepo(pool)
	profiles := repo.NewProfileRepo(pool)
	trips := repo.NewTripRepo(pool)
	items := repo.NewTripItemRepo(pool)

	authSvc := service.NewAuthService(users, profiles, repo.NewAuthSessionRepo(pool),
		auth.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL), cfg.RefreshTokenTTL, logger)
	searchSvc := service.NewSearchService(aggregator, store, search.NewCoordinator(), placesClient,
		images, m, logger)

	dir, err := locations.Load()
	if err != nil {
		return err
	}

	srv := handler.NewServer(handler.Deps{
		Trips:       service.NewTripService(trips),
		Items:       service.NewTripItemService(trips, items),
		Auth:        authSvc,
		Profiles:    service.NewProfileService(users, profiles),
		SavedPlaces: service.NewSavedPlaceService(repo.NewSavedPlaceRepo(pool)),
		Search:      searchSvc,
		Locations:   dir,
		Export:      service.NewExportService(trips, items),
		DB:          pool,
		Logger:      logger,
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	router := handler.NewRouter(srv, handler.RouterOptions{
		Authenticator: authSvc,
		CORSOrigins:   cfg.CORSOrigins,
		MaxBodyBytes:  cfg.MaxBodyBytes,
		Limiter:       limiter,
		Metrics:       m,
		OpenAPI:       spec.OpenAPI,
	})

	// --- Housekeeping -----------------------------------------------------
	scheduler := jobs.New(logger)
	if err := jobs.Register(scheduler, jobs.Maintenance{
		Sessions:         authSvc,
		SessionRetention: sessionRetention,
		Searches:         store,
		SearchIdle:       cfg.SearchSessionTTL,
		Visitors:         limiter,
		VisitorIdle:      10 * time.Minute,
	}); err != nil {
		return err
	}
	scheduler.Start()

	// --- HTTP Server ------------------------------------------------------
	// Aggregated searches can take several upstream round trips, so the write
	// timeout is generous.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-stop:
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Warn("scheduler stop", "error", err)
	}
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
