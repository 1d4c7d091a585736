// Package outbox relays events committed in the outbox table to Kafka.
package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/01moynul/storefront-golang/internal/logging"
	"github.com/01moynul/storefront-golang/internal/models"
)

// Source is the outbox table.
type Source interface {
	PendingOutbox(ctx context.Context, limit int) ([]models.OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, ids []int64) error
}

type Publisher interface {
	Publish(ctx context.Context, msgs []models.OutboxMessage) error
}

// Relay polls the outbox and publishes what it finds. Delivery is at least
// once: a crash between Publish and MarkOutboxSent republishes the batch.
type Relay struct {
	source    Source
	publisher Publisher
	interval  time.Duration
	batch     int
}

func NewRelay(source Source, publisher Publisher, interval time.Duration) *Relay {
	if interval <= 0 {
		interval = time.Second
	}
	return &Relay{source: source, publisher: publisher, interval: interval, batch: 100}
}

// Run flushes on every tick until ctx is done.
func (r *Relay) Run(ctx context.Context) {
	logging.Log(logging.Fields{Step: "outbox_relay", Status: "started", Message: r.interval.String()})
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
				logging.Error("outbox_relay", err)
			}
		case <-ctx.Done():
			logging.Info("outbox_relay", "stopped")
			return
		}
	}
}

// Flush publishes one batch and returns how many messages were sent.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	msgs, err := r.source.PendingOutbox(ctx, r.batch)
	if err != nil {
		return 0, fmt.Errorf("fetch pending outbox: %w", err)
	}
	if len(msgs) == 0 {
		return 0, nil
	}

	started := time.Now()
	if err := r.publisher.Publish(ctx, msgs); err != nil {
		return 0, fmt.Errorf("publish %d outbox messages: %w", len(msgs), err)
	}

	ids := make([]int64, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}
	if err := r.source.MarkOutboxSent(ctx, ids); err != nil {
		return 0, fmt.Errorf("mark outbox sent: %w", err)
	}
	for _, m := range msgs {
		logging.Log(logging.Fields{
			EventID:    m.EventID,
			OrderID:    m.Key,
			Step:       "outbox_relay",
			Status:     "published",
			Message:    m.Topic,
			DurationMS: time.Since(started).Milliseconds(),
		})
	}
	return len(msgs), nil
}
