package queue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/okellodaniel/stackbase/internal/config"
	"github.com/okellodaniel/stackbase/internal/jobs"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewReturnsNoopWhenUnconfigured(t *testing.T) {
	cfg := config.Config{Env: "test"} // no project, no topic

	p, closeFn, err := New(context.Background(), cfg, testLogger(), nil)

	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	defer closeFn()

	if _, ok := p.(*NoopPublisher); !ok {
		t.Fatalf("New returned %T, want *NoopPublisher", p)
	}
}

func TestNoopPublishSucceedsWithoutNetwork(t *testing.T) {
	p := &NoopPublisher{log: testLogger()}

	err := p.Publish(context.Background(), jobs.JobProcessItem, jobs.ProcessItemPayload{
		ItemID: "item-1",
	})

	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}
}

func TestNoopPublishStillValidatesPayload(t *testing.T) {
	p := &NoopPublisher{log: testLogger()}

	err := p.Publish(context.Background(), jobs.JobProcessItem, struct{ Foo string }{Foo: "bar"})

	if !errors.Is(err, jobs.ErrPayloadTypeMismatch) {
		t.Errorf("Publish error = %v, want %v", err, jobs.ErrPayloadTypeMismatch)
	}
}
