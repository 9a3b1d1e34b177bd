package notifier

import "context"

// Publisher доставляет событие во внешнюю систему
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Metrics счётчики неудачных доставок
type Metrics interface {
	NotificationFailed(event string)
	NotificationDropped()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
