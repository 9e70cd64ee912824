package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"

	"fsanano/glacierfarm/internal/messaging"
)

// Broker publishes JSON events with segmentio/kafka-go.
type Broker struct {
	writer *kafkaGo.Writer
}

// NewKafkaBroker creates a Kafka publisher. The topic is chosen per message,
// so one writer serves every topic. Close flushes and releases it.
func NewKafkaBroker(brokers []string) *Broker {
	return &Broker{
		writer: &kafkaGo.Writer{
			Addr:         kafkaGo.TCP(brokers...),
			Balancer:     &kafkaGo.Hash{},
			RequiredAcks: kafkaGo.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

var _ messaging.Publisher = (*Broker)(nil)

func (k *Broker) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return k.writer.WriteMessages(ctx, kafkaGo.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	})
}

func (k *Broker) Close() error {
	return k.writer.Close()
}
