package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-RentalService/internal/integrations/notifier"
)

var (
	// ErrInternal возвращается при ошибках соединения с брокером
	ErrInternal = errors.New("rabbitmq publisher: internal error")
)

// Channel часть *amqp.Channel, которая нужна для публикации
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Dialer открывает соединение и канал
type Dialer func() (Channel, func() error, error)

// Publisher публикует события в durable-очередь
type Publisher struct {
	dial  Dialer
	queue string

	mu        sync.Mutex
	ch        Channel
	closeConn func() error
}

// DialURL возвращает Dialer для AMQP URL
func DialURL(url string) Dialer {
	return func() (Channel, func() error, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: dial failed: %w", ErrInternal, err)
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("%w: channel open failed: %w", ErrInternal, err)
		}
		return ch, conn.Close, nil
	}
}

// NewPublisher создает издателя. Соединение открывается лениво при первой публикации
// и переоткрывается после ошибки.
func NewPublisher(dial Dialer, queue string) *Publisher {
	return &Publisher{dial: dial, queue: queue}
}

// Publish отправляет событие как persistent-сообщение с routing key = имя очереди
func (p *Publisher) Publish(ctx context.Context, event notifier.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event failed: %v", notifier.ErrPermanent, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         string(event.Type),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		// Канал после ошибки может быть закрыт брокером, следующая попытка откроет новый
		p.reset()
		return fmt.Errorf("%w: publish failed: %w", ErrInternal, err)
	}

	return nil
}

func (p *Publisher) channel() (Channel, error) {
	if p.ch != nil {
		return p.ch, nil
	}

	ch, closeConn, err := p.dial()
	if err != nil {
		return nil, err
	}

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		if closeConn != nil {
			_ = closeConn()
		}
		return nil, fmt.Errorf("%w: queue declare failed: %w", ErrInternal, err)
	}

	p.ch = ch
	p.closeConn = closeConn
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.closeConn != nil {
		_ = p.closeConn()
	}
	p.ch = nil
	p.closeConn = nil
}

// Close закрывает канал и соединение
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}
