package notification

import "errors"

var (
	// ErrSendFailed возвращается, когда письмо не принято провайдером
	ErrSendFailed = errors.New("notification: failed to send email")

	// ErrPublishFailed возвращается, когда событие не опубликовано в брокер
	ErrPublishFailed = errors.New("notification: failed to publish event")

	// ErrEncode возвращается при ошибке сериализации события
	ErrEncode = errors.New("notification: failed to encode event")

	// ErrChannelOpen возвращается, когда circuit breaker канала разомкнут
	ErrChannelOpen = errors.New("notification: channel temporarily disabled")
)
