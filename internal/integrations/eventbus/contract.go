package eventbus

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// MessageWriter интерфейс writer'а Kafka
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
