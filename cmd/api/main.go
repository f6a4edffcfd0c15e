package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/okellodaniel/stackbase/internal/cache"
	"github.com/okellodaniel/stackbase/internal/config"
	"github.com/okellodaniel/stackbase/internal/db"
	httpx "github.com/okellodaniel/stackbase/internal/http"
	"github.com/okellodaniel/stackbase/internal/observability"
	"github.com/okellodaniel/stackbase/internal/queue"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)

	ctx := context.Background()

	// tracing is optional; only wired when an endpoint is configured
	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, "stackbase-api", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}

		defer func() {
			_ = shutdownTracer(context.Background())
		}()
	}

	// system of record: a failure here is fatal
	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	bootCtx, cancelBoot := config.WithTimeout(10 * time.Second)

	if err := db.EnsureSchema(bootCtx, pool); err != nil {
		cancelBoot()
		log.Error("schema setup failed", "err", err)
		os.Exit(1)
	}

	if err := db.EnsureAdminUser(bootCtx, pool, cfg); err != nil {
		cancelBoot()
		log.Error("admin seed failed", "err", err)
		os.Exit(1)
	}
	cancelBoot()

	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)

	// cache is optional; the app runs fine without redis
	var store cache.Store

	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedisStore(cfg.RedisURL)

		if err != nil {
			log.Warn("cache disabled: bad redis url", "err", err)
		} else {
			pingCtx, cancelPing := config.WithTimeout(2 * time.Second)

			if err := redisStore.Ping(pingCtx); err != nil {
				// keep the store wired anyway; the cache fails open per
				// request, so a late-starting redis just begins working
				log.Warn("redis unreachable at boot", "err", err)
			}
			cancelPing()

			store = redisStore
			defer redisStore.Close()
		}
	} else {
		log.Info("cache disabled (no redis url configured)")
	}

	appCache := cache.New(store, log).WithMetrics(prom.Cache())

	publisher, closePublisher, err := queue.New(ctx, cfg, log, prom)

	if err != nil {
		log.Error("queue setup failed", "err", err)
		os.Exit(1)
	}

	defer closePublisher()

	// set up routes
	router := httpx.NewRouter(cfg, httpx.RouterDeps{
		Log:       log,
		Pool:      pool,
		Cache:     appCache,
		Publisher: publisher,
		Prom:      prom,
		Registry:  registry,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		shutdownCtx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(shutdownCtx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
