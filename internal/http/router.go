package http

import (
	"context"
	"html/template"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/okellodaniel/stackbase/internal/cache"
	"github.com/okellodaniel/stackbase/internal/config"
	"github.com/okellodaniel/stackbase/internal/http/handlers"
	"github.com/okellodaniel/stackbase/internal/http/middlewares"
	"github.com/okellodaniel/stackbase/internal/observability"
	"github.com/okellodaniel/stackbase/internal/queue"
	"github.com/okellodaniel/stackbase/internal/repo/postgres"
	"github.com/okellodaniel/stackbase/internal/session"
	"github.com/okellodaniel/stackbase/web"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type RouterDeps struct {
	Log       *slog.Logger
	Pool      *pgxpool.Pool
	Cache     *cache.Cache
	Publisher queue.Publisher
	Prom      *observability.Prom
	Registry  *prometheus.Registry
}

func NewRouter(cfg config.Config, deps RouterDeps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(deps.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(otelgin.Middleware("stackbase-api"))

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	// embedded HTML views
	r.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.html")))

	// health
	ping := func() error {
		if deps.Pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return deps.Pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(deps.Pool, deps.Prom)
	itemsRepo := postgres.NewItemsRepo(deps.Pool, deps.Prom)
	todosRepo := postgres.NewTodosRepo(deps.Pool, deps.Prom)

	// session plumbing
	tokens := session.NewManager(cfg.SecretKey, cfg.SessionMaxAge)
	cookies := session.NewCookieWriter(cfg.SessionCookieName, int(cfg.SessionMaxAge.Seconds()), cfg.Env == "prod")
	sessions := middlewares.NewSessionMiddleware(tokens, usersRepo, cfg.SessionCookieName)

	// every route sees the resolved identity (or anonymous)
	r.Use(sessions.CurrentUser())

	// handlers
	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, tokens, cookies)
	viewsHandler := handlers.NewViewsHandler(todosRepo, itemsRepo)
	itemsHandler := handlers.NewItemsHandler(itemsRepo, deps.Cache, cfg.ItemsCacheTTL, deps.Publisher)

	// HTML views
	r.GET("/", viewsHandler.Index)

	authLimiter := middlewares.NewRateLimiter(10, time.Minute)

	authGroup := r.Group("/auth")
	{
		authGroup.GET("/login", authHandler.LoginForm)
		authGroup.GET("/register", authHandler.RegisterForm)
		authGroup.POST("/login", authLimiter.Middleware(middlewares.KeyByIP), authHandler.Login)
		authGroup.POST("/register", authLimiter.Middleware(middlewares.KeyByIP), authHandler.Register)
		authGroup.POST("/logout", authHandler.Logout)
	}

	pages := r.Group("/", sessions.RequirePage())
	{
		pages.GET("/dashboard", viewsHandler.Dashboard)
		pages.POST("/todos", viewsHandler.AddTodo)
		pages.POST("/todos/:id/toggle", viewsHandler.ToggleTodo)
		pages.POST("/todos/:id/delete", viewsHandler.DeleteTodo)
	}

	// JSON API
	processLimiter := middlewares.NewRateLimiter(60, time.Minute)

	api := r.Group("/api", middlewares.CORSMiddleware(cfg.CORSOrigins))
	{
		api.GET("/items", itemsHandler.ListItems)
		api.GET("/items/:id", itemsHandler.GetItem)
		api.POST("/items", middlewares.RequireJSON(), sessions.RequireAuth(), itemsHandler.CreateItem)
		api.POST("/items/:id/process", sessions.RequireAuth(),
			processLimiter.Middleware(middlewares.KeyByUserOrIP), itemsHandler.ProcessItem)
		api.DELETE("/items/:id", sessions.RequireAuth(), sessions.RequireRole("admin"), itemsHandler.DeleteItem)
	}

	return r
}
