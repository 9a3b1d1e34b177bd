package main

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/config"
	"github.com/m04kA/SMC-RentalService/internal/integrations/notifier"
	"github.com/m04kA/SMC-RentalService/internal/integrations/notifier/kafka"
	"github.com/m04kA/SMC-RentalService/internal/integrations/notifier/rabbitmq"
	"github.com/m04kA/SMC-RentalService/internal/integrations/notifier/webhook"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
	"github.com/m04kA/SMC-RentalService/pkg/metrics"
)

// newPublisher выбирает канал доставки уведомлений по notifier.publisher
func newPublisher(cfg config.NotifierConfig, log *logger.Logger) (notifier.Publisher, error) {
	switch cfg.Publisher {
	case config.PublisherWebhook:
		log.Info("Notifications: webhook %s", cfg.Webhook.URL)
		return webhook.NewClient(cfg.Webhook.URL, cfg.Webhook.Secret,
			time.Duration(cfg.Webhook.Timeout)*time.Second, log), nil

	case config.PublisherRabbitMQ:
		log.Info("Notifications: rabbitmq queue=%s", cfg.RabbitMQ.Queue)
		return rabbitmq.NewPublisher(rabbitmq.DialURL(cfg.RabbitMQ.URL), cfg.RabbitMQ.Queue), nil

	case config.PublisherKafka:
		producer, err := kafka.NewSyncProducer(cfg.Kafka.Brokers, cfg.Kafka.ClientID)
		if err != nil {
			return nil, err
		}
		log.Info("Notifications: kafka topic=%s, brokers=%v", cfg.Kafka.Topic, cfg.Kafka.Brokers)
		return kafka.NewPublisher(producer, cfg.Kafka.Topic), nil

	default:
		log.Info("Notifications: log only")
		return notifier.NewLogPublisher(log), nil
	}
}

func newDispatcher(cfg config.NotifierConfig, m *metrics.Metrics, log *logger.Logger) (*notifier.Dispatcher, error) {
	publisher, err := newPublisher(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	return notifier.NewDispatcher(publisher, notifier.Config{
		QueueSize:      cfg.QueueSize,
		Workers:        cfg.Workers,
		MaxAttempts:    cfg.MaxAttempts,
		InitialBackoff: time.Duration(cfg.InitialBackoffMs) * time.Millisecond,
		MaxBackoff:     time.Duration(cfg.MaxBackoffMs) * time.Millisecond,
		PublishTimeout: time.Duration(cfg.PublishTimeout) * time.Second,
	}, log, m), nil
}
