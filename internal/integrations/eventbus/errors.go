package eventbus

import "errors"

var (
	// ErrMarshal возвращается, если событие не удалось сериализовать
	ErrMarshal = errors.New("eventbus: failed to marshal event")

	// ErrPublish возвращается при ошибке записи в Kafka
	ErrPublish = errors.New("eventbus: failed to publish event")
)
