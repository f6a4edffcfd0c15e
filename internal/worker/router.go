package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okellodaniel/stackbase/internal/config"
	"github.com/okellodaniel/stackbase/internal/http/handlers"
	"github.com/okellodaniel/stackbase/internal/http/middlewares"
	"github.com/okellodaniel/stackbase/internal/jobs"
	"github.com/okellodaniel/stackbase/internal/observability"
	"github.com/okellodaniel/stackbase/internal/repo/postgres"
)

// NewRouter builds the worker service surface: the push endpoint plus
// liveness and metrics.
func NewRouter(cfg config.Config, log *slog.Logger, pool *pgxpool.Pool, prom *observability.Prom, registry *prometheus.Registry) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	itemsRepo := postgres.NewItemsRepo(pool, prom)

	dispatcher := NewDispatcher(log, prom)
	dispatcher.Register(jobs.JobProcessItem, ProcessItemHandler(itemsRepo, log))

	push := NewPushHandler(dispatcher)
	r.POST("/pubsub/push", push.Handle)

	return r
}
