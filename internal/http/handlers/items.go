package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/okellodaniel/stackbase/internal/cache"
	"github.com/okellodaniel/stackbase/internal/config"
	"github.com/okellodaniel/stackbase/internal/domain/item"
	"github.com/okellodaniel/stackbase/internal/http/middlewares"
	"github.com/okellodaniel/stackbase/internal/jobs"
	"github.com/okellodaniel/stackbase/internal/queue"
)

const itemsListLimit = 100

type ItemsStore interface {
	Create(ctx context.Context, req item.CreateItemRequest) (item.Item, error)
	GetByID(ctx context.Context, id string) (item.Item, error)
	ListRecent(ctx context.Context, limit int) ([]item.Item, error)
	Delete(ctx context.Context, id string) error
}

type ItemsHandler struct {
	repo      ItemsStore
	cache     *cache.Cache
	cacheTTL  time.Duration
	publisher queue.Publisher
}

func NewItemsHandler(repo ItemsStore, c *cache.Cache, cacheTTL time.Duration, publisher queue.Publisher) *ItemsHandler {
	return &ItemsHandler{
		repo:      repo,
		cache:     c,
		cacheTTL:  cacheTTL,
		publisher: publisher,
	}
}

// ListItems serves the cache-aside read path: recent items, cached
// under a deterministic key for the configured TTL.
func (h *ItemsHandler) ListItems(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, err := cache.Fetch(cctx, h.cache, cache.ItemsListKey(itemsListLimit), h.cacheTTL,
		func(fetchCtx context.Context) ([]item.Item, error) {
			return h.repo.ListRecent(fetchCtx, itemsListLimit)
		})

	if err != nil {
		RespondInternal(ctx, "Could not list items")
		return
	}

	// bare array, never null
	if items == nil {
		items = []item.Item{}
	}

	ctx.JSON(http.StatusOK, items)
}

func (h *ItemsHandler) GetItem(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	it, err := h.repo.GetByID(cctx, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			RespondNotFound(ctx, "Item not found")
			return
		}

		RespondInternal(ctx, "Could not load item")
		return
	}

	ctx.JSON(http.StatusOK, it)
}

func (h *ItemsHandler) CreateItem(ctx *gin.Context) {
	var req item.CreateItemRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	it, err := h.repo.Create(cctx, req)

	if err != nil {
		if errors.Is(err, item.ErrSlugTaken) {
			RespondConflict(ctx, "slug_taken", "An item with this name already exists.")
			return
		}

		RespondInternal(ctx, "Could not create item")
		return
	}

	ctx.JSON(http.StatusCreated, it)
}

// DeleteItem is admin-only (wired behind the role check in the router).
// The cached list is left to expire on its own TTL.
func (h *ItemsHandler) DeleteItem(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if err := h.repo.Delete(cctx, ctx.Param("id")); err != nil {
		if errors.Is(err, item.ErrNotFound) {
			RespondNotFound(ctx, "Item not found")
			return
		}

		RespondInternal(ctx, "Could not delete item")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ProcessItem enqueues a background job for the item and returns
// immediately. Existence is deliberately not validated here: the worker
// owns that check, and its failure feeds the broker's redelivery.
func (h *ItemsHandler) ProcessItem(ctx *gin.Context) {
	itemID := ctx.Param("id")

	u, _ := middlewares.UserFromContext(ctx)

	payload := jobs.ProcessItemPayload{
		ItemID:      itemID,
		RequestedBy: u.ID,
		RequestID:   requestIDFrom(ctx),
	}

	// Broker failures are observed asynchronously and logged, never
	// surfaced here; an error from Publish means a malformed payload.
	if err := h.publisher.Publish(ctx.Request.Context(), jobs.JobProcessItem, payload); err != nil {
		RespondInternal(ctx, "Could not enqueue item")
		return
	}

	ctx.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
