package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/okellodaniel/stackbase/internal/domain/item"
	"github.com/okellodaniel/stackbase/internal/jobs"
)

// Keep this small interface so tests can fake it easily.
type ItemGetter interface {
	GetByID(ctx context.Context, id string) (item.Item, error)
}

// ProcessItemHandler performs the bounded unit of work for a
// process_item message. Loading the item proves DB access works; real
// processing would go here. A missing item fails the delivery, which
// hands retrying back to the broker.
func ProcessItemHandler(items ItemGetter, log *slog.Logger) HandlerFunc {
	return func(ctx context.Context, payload any) error {
		p, ok := payload.(jobs.ProcessItemPayload)

		if !ok {
			return jobs.ErrPayloadTypeMismatch
		}

		it, err := items.GetByID(ctx, p.ItemID)

		if err != nil {
			return fmt.Errorf("load item %s: %w", p.ItemID, err)
		}

		log.Info("processed item",
			"item_id", it.ID,
			"slug", it.Slug,
			"requested_by", p.RequestedBy,
			"request_id", p.RequestID,
		)

		return nil
	}
}
