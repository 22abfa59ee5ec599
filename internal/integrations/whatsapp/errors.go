package whatsapp

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("whatsapp client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от Cloud API
	ErrInvalidResponse = errors.New("whatsapp client: invalid response")

	// ErrRejected возвращается, когда Cloud API отклонил сообщение (4xx)
	ErrRejected = errors.New("whatsapp client: message rejected")
)
