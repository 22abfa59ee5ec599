package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

const (
	headerEventID   = "event_id"
	headerEventType = "event_type"
)

// Publisher публикует события записей в топик Kafka
type Publisher struct {
	writer MessageWriter
	topic  string
	now    func() time.Time
}

// NewPublisher создает publisher с kafka.Writer.
// Ключ сообщения привязан к записи, поэтому события одной записи попадают в одну партицию по порядку.
func NewPublisher(brokers []string, topic string) *Publisher {
	return NewPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}, topic)
}

// NewPublisherWithWriter создает publisher поверх готового writer'а
func NewPublisherWithWriter(writer MessageWriter, topic string) *Publisher {
	return &Publisher{
		writer: writer,
		topic:  topic,
		now:    time.Now,
	}
}

// Publish отправляет событие о записи
func (p *Publisher) Publish(ctx context.Context, event domain.EventType, appt domain.Appointment) error {
	eventID := uuid.NewString()

	payload, err := json.Marshal(newAppointmentEvent(eventID, event, appt, p.now().UTC()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d:%d", appt.OrganizationID, appt.ID)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: headerEventID, Value: []byte(eventID)},
			{Key: headerEventType, Value: []byte(event)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: topic=%s, event=%s: %v", ErrPublish, p.topic, event, err)
	}
	return nil
}

// Close закрывает writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}
