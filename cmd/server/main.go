package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockportal/internal/config"
	"stockportal/internal/infra"
	"stockportal/internal/notify"
	"stockportal/internal/repository"
	"stockportal/internal/router"
	"stockportal/internal/service"
	"stockportal/internal/store"
	"stockportal/internal/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in dev, JSON in prod
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := infra.NewMetrics(reg)

	// ── Inventory API ────────────────────────────────────────────────────────
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{
		FailureThreshold: cfg.CBFailureThreshold,
		SuccessThreshold: infra.DefaultCBConfig().SuccessThreshold,
		OpenTimeout:      cfg.CBOpenTimeout(),
	})
	client := infra.NewInventoryAPIClient(infra.InventoryAPIConfig{
		BaseURL:  cfg.InventoryAPIURL,
		Username: cfg.InventoryAPIUsername,
		Password: cfg.InventoryAPIPassword,
		Timeout:  cfg.UpstreamTimeout(),
	}, cb, metrics)

	items := repository.NewItemRepository(client)
	suppliers := repository.NewSupplierRepository(client)

	// ── Sessions ─────────────────────────────────────────────────────────────
	sessionRepo := repository.NewMemorySessionRepository()
	if cfg.RedisURL != "" {
		rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		sessionRepo = repository.NewRedisSessionRepository(rdb)
	} else {
		log.Warn().Msg("REDIS_URL not set, sessions are kept in memory")
	}
	if cfg.PortalPasswordHash == "" {
		log.Warn().Msg("PORTAL_PASSWORD_HASH not set, every login will be rejected")
	}

	// ── Services ─────────────────────────────────────────────────────────────
	cache := store.New(items, suppliers, metrics)
	feed := notify.NewFeed(cfg.NotificationFeedSize)
	stopTracking := worker.TrackCacheMetrics(cache, metrics)
	defer stopTracking()

	auth := service.NewStaticAuthenticator(cfg.PortalUsername, cfg.PortalPasswordHash)
	sessions := service.NewSessionService(auth, sessionRepo, cfg.JWTSecret, cfg.SessionTTL())
	catalog := service.NewCatalogService(cache, feed)
	inventory := service.NewInventoryService(items, suppliers, cache, feed, metrics)

	// Initial load plus periodic refresh; failures surface in the feed.
	refresherDone := worker.StartRefresher(ctx, worker.RefresherConfig{
		Cache:    cache,
		CB:       cb,
		Interval: cfg.RefreshInterval(),
		OnError: func(error) {
			feed.Notify(notify.Error, service.MsgRefreshFailed)
		},
	})

	r := router.New(cfg, router.Deps{
		Catalog:   catalog,
		Inventory: inventory,
		Sessions:  sessions,
		Feed:      feed,
		Breaker:   cb,
		Gatherer:  reg,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout() + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("upstream", cfg.InventoryAPIURL).Msgf("stock portal listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	<-refresherDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
