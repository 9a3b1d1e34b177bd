package notifier

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	DefaultQueueSize      = 256
	DefaultMaxAttempts    = 5
	DefaultInitialBackoff = 200 * time.Millisecond
	DefaultMaxBackoff     = 10 * time.Second
	DefaultPublishTimeout = 5 * time.Second
)

// Config параметры диспетчера
type Config struct {
	QueueSize      int
	Workers        int
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	PublishTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = DefaultInitialBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = DefaultMaxBackoff
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = DefaultPublishTimeout
	}
	return c
}

// Dispatcher доставляет уведомления в фоне после фиксации транзакций.
// Ошибки доставки логируются и считаются, но никогда не возвращаются
// вызывающему коду: бронирование не зависит от уведомлений.
type Dispatcher struct {
	publisher Publisher
	cfg       Config
	logger    Logger
	metrics   Metrics

	mu     sync.RWMutex
	closed bool
	queue  chan Event

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewDispatcher создает диспетчер и запускает воркеры
func NewDispatcher(publisher Publisher, cfg Config, logger Logger, metrics Metrics) *Dispatcher {
	cfg = cfg.withDefaults()

	d := &Dispatcher{
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		queue:     make(chan Event, cfg.QueueSize),
		stop:      make(chan struct{}),
	}

	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}

	return d
}

// Dispatch ставит событие в очередь, не блокируясь.
// При переполненной очереди событие отбрасывается.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("Dispatch: dispatcher closed, event=%s id=%s dropped", event.Type, event.ID)
		d.dropped()
		return
	}

	select {
	case d.queue <- event:
	default:
		d.logger.Error("Dispatch: %v, event=%s id=%s unit=%d dropped", ErrQueueFull, event.Type, event.ID, event.UnitID)
		d.dropped()
	}
}

// Close перестает принимать события и ждёт доставки очереди.
// Если ctx истёк раньше, оставшиеся попытки прерываются.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		close(d.stop)
		<-done
		err = ctx.Err()
	}

	if closeErr := d.publisher.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	return err
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for event := range d.queue {
		d.deliver(event)
	}
}

func (d *Dispatcher) deliver(event Event) {
	backoff := d.cfg.InitialBackoff

	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		err := d.publish(event)
		if err == nil {
			if attempt > 1 {
				d.logger.Info("Deliver: event=%s id=%s delivered after %d attempts", event.Type, event.ID, attempt)
			}
			return
		}

		if errors.Is(err, ErrPermanent) {
			d.logger.Error("Deliver: event=%s id=%s rejected: %v", event.Type, event.ID, err)
			d.failed(event)
			return
		}

		if attempt == d.cfg.MaxAttempts {
			d.logger.Error("Deliver: event=%s id=%s failed after %d attempts: %v", event.Type, event.ID, attempt, err)
			d.failed(event)
			return
		}

		d.logger.Warn("Deliver: event=%s id=%s attempt %d failed: %v", event.Type, event.ID, attempt, err)

		select {
		case <-time.After(backoff):
		case <-d.stop:
			d.logger.Warn("Deliver: shutdown, event=%s id=%s abandoned", event.Type, event.ID)
			d.failed(event)
			return
		}

		backoff *= 2
		if backoff > d.cfg.MaxBackoff {
			backoff = d.cfg.MaxBackoff
		}
	}
}

func (d *Dispatcher) publish(event Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.PublishTimeout)
	defer cancel()
	return d.publisher.Publish(ctx, event)
}

func (d *Dispatcher) failed(event Event) {
	if d.metrics != nil {
		d.metrics.NotificationFailed(string(event.Type))
	}
}

func (d *Dispatcher) dropped() {
	if d.metrics != nil {
		d.metrics.NotificationDropped()
	}
}
