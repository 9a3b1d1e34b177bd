package notifier

import "context"

// LogPublisher пишет события в лог. Используется, когда внешний канал не настроен.
type LogPublisher struct {
	logger Logger
}

func NewLogPublisher(logger Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	p.logger.Info("Notification: event=%s id=%s unit=%d", event.Type, event.ID, event.UnitID)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
