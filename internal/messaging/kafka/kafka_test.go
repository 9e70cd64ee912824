package kafka

import (
	"context"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishEvent_MarshalError(t *testing.T) {
	broker := NewKafkaBroker([]string{"localhost:9092"})
	t.Cleanup(func() { _ = broker.Close() })

	err := broker.PublishEvent(context.Background(), "orders", "k", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to marshal event")
}

func TestNewKafkaBroker_WriterConfig(t *testing.T) {
	broker := NewKafkaBroker([]string{"a:9092", "b:9092"})
	t.Cleanup(func() { _ = broker.Close() })

	assert.NotNil(t, broker.writer.Addr)
	assert.Empty(t, broker.writer.Topic)
	assert.IsType(t, &kafkaGo.Hash{}, broker.writer.Balancer)
}
