package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/okellodaniel/stackbase/internal/config"
	"github.com/okellodaniel/stackbase/internal/domain/item"
	"github.com/okellodaniel/stackbase/internal/domain/todo"
	"github.com/okellodaniel/stackbase/internal/http/middlewares"
)

type TodosStore interface {
	ListByUser(ctx context.Context, userID string) ([]todo.Todo, error)
	Create(ctx context.Context, userID string, req todo.CreateTodoRequest) (todo.Todo, error)
	Toggle(ctx context.Context, userID, todoID string) error
	Delete(ctx context.Context, userID, todoID string) error
}

type RecentItemsLister interface {
	ListRecent(ctx context.Context, limit int) ([]item.Item, error)
}

type ViewsHandler struct {
	todos TodosStore
	items RecentItemsLister
}

func NewViewsHandler(todos TodosStore, items RecentItemsLister) *ViewsHandler {
	return &ViewsHandler{todos: todos, items: items}
}

func (h *ViewsHandler) Index(ctx *gin.Context) {
	_, signedIn := middlewares.UserFromContext(ctx)

	ctx.HTML(http.StatusOK, "index.html", gin.H{
		"SignedIn": signedIn,
	})
}

const dashboardItemsLimit = 10

// Dashboard renders the signed-in user's todo list plus the newest
// items. Runs behind RequirePage, so the identity is always present.
func (h *ViewsHandler) Dashboard(ctx *gin.Context) {
	u, _ := middlewares.UserFromContext(ctx)

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	todos, err := h.todos.ListByUser(cctx, u.ID)

	if err != nil {
		RespondInternal(ctx, "Could not load dashboard")
		return
	}

	items, err := h.items.ListRecent(cctx, dashboardItemsLimit)

	if err != nil {
		RespondInternal(ctx, "Could not load dashboard")
		return
	}

	ctx.HTML(http.StatusOK, "dashboard.html", gin.H{
		"User":  u,
		"Todos": todos,
		"Items": items,
	})
}

func (h *ViewsHandler) AddTodo(ctx *gin.Context) {
	u, _ := middlewares.UserFromContext(ctx)

	var req todo.CreateTodoRequest

	if err := ctx.ShouldBind(&req); err != nil {
		// empty titles just bounce back to the dashboard
		ctx.Redirect(http.StatusFound, "/dashboard")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if _, err := h.todos.Create(cctx, u.ID, req); err != nil {
		RespondInternal(ctx, "Could not create todo")
		return
	}

	ctx.Redirect(http.StatusFound, "/dashboard")
}

func (h *ViewsHandler) ToggleTodo(ctx *gin.Context) {
	h.mutateTodo(ctx, h.todos.Toggle)
}

func (h *ViewsHandler) DeleteTodo(ctx *gin.Context) {
	h.mutateTodo(ctx, h.todos.Delete)
}

// mutateTodo applies an ownership-scoped mutation; a missing row (or
// someone else's row) is not an error worth surfacing on a redirect.
func (h *ViewsHandler) mutateTodo(ctx *gin.Context, fn func(context.Context, string, string) error) {
	u, _ := middlewares.UserFromContext(ctx)
	todoID := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if err := fn(cctx, u.ID, todoID); err != nil && err != todo.ErrNotFound {
		RespondInternal(ctx, "Could not update todo")
		return
	}

	ctx.Redirect(http.StatusFound, "/dashboard")
}
