package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/okellodaniel/stackbase/internal/jobs"
	"github.com/okellodaniel/stackbase/internal/observability"
)

type HandlerFunc func(ctx context.Context, payload any) error

var ErrNoHandler = errors.New("no handler registered for job type")

// Dispatcher routes decoded queue messages to the handler registered
// for their type discriminator.
type Dispatcher struct {
	handlers map[jobs.JobType]HandlerFunc
	log      *slog.Logger
	prom     *observability.Prom
}

func NewDispatcher(log *slog.Logger, prom *observability.Prom) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[jobs.JobType]HandlerFunc),
		log:      log,
		prom:     prom,
	}
}

func (d *Dispatcher) Register(t jobs.JobType, fn HandlerFunc) {
	d.handlers[t] = fn
}

// Dispatch decodes a raw message body and runs the matching handler.
// Decode failures and unknown types reject the delivery; handler errors
// fail it so the broker's own retry policy applies.
func (d *Dispatcher) Dispatch(ctx context.Context, body []byte) error {
	start := time.Now()

	t, payload, err := jobs.Decode(body)

	if err != nil {
		d.observe(string(t), "rejected", start)
		return err
	}

	fn, ok := d.handlers[t]

	if !ok {
		d.observe(string(t), "rejected", start)
		return fmt.Errorf("%w: %s", ErrNoHandler, t)
	}

	if err := fn(ctx, payload); err != nil {
		d.log.Error("job failed", "type", string(t), "err", err)
		d.observe(string(t), "failed", start)
		return err
	}

	d.log.Info("job done", "type", string(t), "duration_ms", time.Since(start).Milliseconds())
	d.observe(string(t), "ok", start)

	return nil
}

func (d *Dispatcher) observe(jobType, result string, start time.Time) {
	if d.prom == nil {
		return
	}

	if jobType == "" {
		jobType = "unknown"
	}

	d.prom.DeliveryResults.WithLabelValues(jobType, result).Inc()
	d.prom.DeliveryDuration.WithLabelValues(jobType, result).Observe(time.Since(start).Seconds())
}
