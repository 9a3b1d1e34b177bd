package notifier

import "errors"

var (
	// ErrPermanent доставка невозможна, повтор не поможет
	ErrPermanent = errors.New("notifier: permanent delivery failure")

	// ErrQueueFull очередь уведомлений переполнена, событие отброшено
	ErrQueueFull = errors.New("notifier: queue is full")

	// ErrClosed диспетчер остановлен
	ErrClosed = errors.New("notifier: dispatcher is closed")
)
