package queue

import (
	"context"
	"log/slog"

	"cloud.google.com/go/pubsub"

	"github.com/okellodaniel/stackbase/internal/config"
	"github.com/okellodaniel/stackbase/internal/jobs"
	"github.com/okellodaniel/stackbase/internal/observability"
)

// Publisher sends encoded job messages to the configured topic.
// Keep this small interface so tests can fake it easily.
type Publisher interface {
	Publish(ctx context.Context, t jobs.JobType, payload any) error
}

// New returns the pub/sub backed publisher, or the no-op one when
// project/topic are unconfigured. The optional-dependency decision is
// made exactly once, here, not re-checked per call.
func New(ctx context.Context, cfg config.Config, log *slog.Logger, prom *observability.Prom) (Publisher, func(), error) {
	if cfg.GCPProjectID == "" || cfg.PubSubTopic == "" {
		log.Info("queue publishing disabled (no project/topic configured)")
		return &NoopPublisher{log: log, prom: prom}, func() {}, nil
	}

	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID)

	if err != nil {
		return nil, nil, err
	}

	topic := client.Topic(cfg.PubSubTopic)

	p := &PubSubPublisher{
		topic: topic,
		log:   log,
		prom:  prom,
	}

	closeFn := func() {
		topic.Stop()
		_ = client.Close()
	}

	return p, closeFn, nil
}

// NoopPublisher is the local-development affordance: publishing succeeds
// without contacting any network service.
type NoopPublisher struct {
	log  *slog.Logger
	prom *observability.Prom
}

func (p *NoopPublisher) Publish(_ context.Context, t jobs.JobType, payload any) error {
	// still exercise the codec so misuse fails loudly in dev
	if _, err := jobs.Encode(t, payload); err != nil {
		return err
	}

	p.log.Debug("publish skipped", "type", string(t))

	if p.prom != nil {
		p.prom.PublishTotal.WithLabelValues(string(t), "skipped").Inc()
	}

	return nil
}

// PubSubPublisher publishes to a managed topic. Delivery is best-effort
// fire-and-forget: the publish result is observed off the request path
// and failures are logged, never surfaced to the enqueuing request.
type PubSubPublisher struct {
	topic *pubsub.Topic
	log   *slog.Logger
	prom  *observability.Prom
}

func (p *PubSubPublisher) Publish(ctx context.Context, t jobs.JobType, payload any) error {
	b, err := jobs.Encode(t, payload)

	if err != nil {
		return err
	}

	res := p.topic.Publish(ctx, &pubsub.Message{Data: b})

	go func() {
		// the result ties to the broker round-trip, not the request;
		// use a background context so client disconnects don't cancel it
		_, err := res.Get(context.Background())

		if err != nil {
			p.log.Error("publish failed", "type", string(t), "err", err)

			if p.prom != nil {
				p.prom.PublishTotal.WithLabelValues(string(t), "error").Inc()
			}

			return
		}

		if p.prom != nil {
			p.prom.PublishTotal.WithLabelValues(string(t), "ok").Inc()
		}
	}()

	return nil
}
