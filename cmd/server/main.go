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

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rentwise/internal/platform/config"
	"rentwise/internal/platform/health"
	"rentwise/internal/platform/httpserver"
	"rentwise/internal/platform/jwt"
	"rentwise/internal/platform/logger"
	httpmetrics "rentwise/internal/platform/metrics"
	"rentwise/internal/platform/middleware"
	"rentwise/internal/platform/postgres"
	"rentwise/internal/platform/redis"
	"rentwise/internal/profile/cache"
	"rentwise/internal/profile/events"
	"rentwise/internal/profile/handler"
	profilemetrics "rentwise/internal/profile/metrics"
	"rentwise/internal/profile/service"
	"rentwise/internal/profile/store"
	"rentwise/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/profile.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("profile service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	checks := health.New(2 * time.Second)

	profiles, closeStore, err := buildStore(ctx, cfg, log, checks)
	if err != nil {
		return err
	}
	defer closeStore()

	profileCache, closeCache, err := buildCache(ctx, cfg, log, checks)
	if err != nil {
		return err
	}
	defer closeCache()

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(profilemetrics.New(prometheus.DefaultRegisterer)),
	}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			return err
		}
		defer publisher.Close()
		if err := publisher.EnsureTopic(ctx, 3, 1); err != nil {
			log.Warn("could not ensure profile events topic", "topic", cfg.Kafka.Topic, "error", err)
		}
		checks.Add("events", publisher.Ping)
		opts = append(opts, service.WithEventPublisher(publisher))
		log.Info("publishing profile events", "topic", cfg.Kafka.Topic)
	}

	svc := service.New(profiles, profileCache, opts...)
	validator := jwt.NewValidator(cfg.JWTSigningKey, cfg.JWTIssuer)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(log))
	router.Use(requesttime.Middleware)
	router.Use(middleware.Logger(log))
	router.Use(httpmetrics.New(prometheus.DefaultRegisterer).Middleware)

	router.Method(http.MethodGet, "/healthz", checks)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, log))
		handler.New(svc, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting profile service", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down profile service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildStore(ctx context.Context, cfg config.Server, log *slog.Logger, checks *health.Handler) (service.ProfileStore, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, profiles are kept in memory")
		return store.NewInMemory(), func() {}, nil
	}
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	pg := store.NewPostgres(db)
	checks.Add("store", pg.Ping)
	return pg, func() { _ = db.Close() }, nil
}

func buildCache(ctx context.Context, cfg config.Server, log *slog.Logger, checks *health.Handler) (service.ProfileCache, func(), error) {
	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Info("REDIS_URL not set, using the in-process profile cache")
		return cache.NewMemory(cfg.CacheTTL), func() {}, nil
	}
	checks.Add("cache", client.Health)
	return cache.NewRedis(client.Client, cfg.CacheTTL), func() { _ = client.Close() }, nil
}
