// Package messaging publishes domain events to a message broker.
package messaging

import (
	"context"
	"fmt"
	"time"

	"fsanano/glacierfarm/internal/model"
)

// Publisher defines an interface for publishing events to a message broker.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
}

const publishTimeout = 3 * time.Second

// OrderEvents sends OrderPlaced events to a topic, keyed by listing so that
// events for one product stay ordered within a partition.
type OrderEvents struct {
	pub   Publisher
	topic string
}

func NewOrderEvents(pub Publisher, topic string) *OrderEvents {
	return &OrderEvents{pub: pub, topic: topic}
}

func (o *OrderEvents) PublishOrderPlaced(ctx context.Context, event model.OrderPlaced) error {
	// The request may finish before the broker answers.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := o.pub.PublishEvent(ctx, o.topic, event.ListingID, event); err != nil {
		return fmt.Errorf("failed to publish order %s: %w", event.OrderID, err)
	}
	return nil
}
