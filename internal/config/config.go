// Package config загрузка конфигурации сервиса из TOML-файла и переменных окружения.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	PublisherLog      = "log"
	PublisherWebhook  = "webhook"
	PublisherRabbitMQ = "rabbitmq"
	PublisherKafka    = "kafka"
)

// DefaultPath путь к конфигу, если CONFIG_PATH не задан
const DefaultPath = "config.toml"

var (
	// ErrRead файл конфигурации не удалось прочитать или разобрать
	ErrRead = errors.New("config: failed to read config")

	// ErrInvalid конфигурация не прошла проверку
	ErrInvalid = errors.New("config: invalid config")
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Storage  StorageConfig  `toml:"storage"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Redis    RedisConfig    `toml:"redis"`
	Notifier NotifierConfig `toml:"notifier"`
	Booking  BookingConfig  `toml:"booking"`
}

// ServerConfig таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.DBName,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// StorageConfig memory держит данные в процессе и годится только для разработки
type StorageConfig struct {
	Driver string `toml:"driver"`
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig пустой Addr отключает кэш ценовых периодов
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      int    `toml:"ttl"` // секунды
	Prefix   string `toml:"prefix"`
}

// Enabled включён ли кэш
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type NotifierConfig struct {
	Publisher string `toml:"publisher"`

	QueueSize        int `toml:"queue_size"`
	Workers          int `toml:"workers"`
	MaxAttempts      int `toml:"max_attempts"`
	InitialBackoffMs int `toml:"initial_backoff_ms"`
	MaxBackoffMs     int `toml:"max_backoff_ms"`
	PublishTimeout   int `toml:"publish_timeout"` // секунды

	Webhook  WebhookConfig  `toml:"webhook"`
	RabbitMQ RabbitMQConfig `toml:"rabbitmq"`
	Kafka    KafkaConfig    `toml:"kafka"`
}

type WebhookConfig struct {
	URL     string `toml:"url"`
	Secret  string `toml:"secret"`
	Timeout int    `toml:"timeout"` // секунды
}

type RabbitMQConfig struct {
	URL   string `toml:"url"`
	Queue string `toml:"queue"`
}

type KafkaConfig struct {
	Brokers  []string `toml:"brokers"`
	Topic    string   `toml:"topic"`
	ClientID string   `toml:"client_id"`
}

type BookingConfig struct {
	// BlockConflictsWithPending запрещает класть блок поверх PENDING-бронирования
	BlockConflictsWithPending bool `toml:"block_conflicts_with_pending"`

	// DefaultStatus confirmed или pending для запросов без requireConfirmation
	DefaultStatus string `toml:"default_status"`

	// MaxStayNights предельная длина проживания, блока и ценового периода
	MaxStayNights int `toml:"max_stay_nights"`
}

// Load читает .env (если есть), TOML-файл, применяет переменные окружения и значения по умолчанию.
// Если задан CONFIG_PATH, он важнее path.
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	if env := os.Getenv("CONFIG_PATH"); env != "" {
		path = env
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		key    string
		target *string
	}{
		{"DB_HOST", &c.Database.Host},
		{"DB_PASSWORD", &c.Database.Password},
		{"REDIS_ADDR", &c.Redis.Addr},
		{"RABBITMQ_URL", &c.Notifier.RabbitMQ.URL},
		{"WEBHOOK_URL", &c.Notifier.Webhook.URL},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok {
			*o.target = v
		}
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Notifier.Kafka.Brokers = splitList(v)
	}
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 15)

	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverPostgres
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "rental-service"
	}

	setDefault(&c.Redis.TTL, 300)
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "rental:rates:"
	}

	if c.Notifier.Publisher == "" {
		c.Notifier.Publisher = PublisherLog
	}
	setDefault(&c.Notifier.Webhook.Timeout, 5)
	if c.Notifier.RabbitMQ.Queue == "" {
		c.Notifier.RabbitMQ.Queue = "rental.events"
	}
	if c.Notifier.Kafka.Topic == "" {
		c.Notifier.Kafka.Topic = "rental.events"
	}
	if c.Notifier.Kafka.ClientID == "" {
		c.Notifier.Kafka.ClientID = c.Metrics.ServiceName
	}

	if c.Booking.DefaultStatus == "" {
		c.Booking.DefaultStatus = "confirmed"
	}
	setDefault(&c.Booking.MaxStayNights, domain.DefaultMaxStayNights)
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalid, c.Server.HTTPPort)
	}

	switch c.Storage.Driver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for postgres storage", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalid, c.Storage.Driver)
	}

	switch c.Notifier.Publisher {
	case PublisherLog:
	case PublisherWebhook:
		if c.Notifier.Webhook.URL == "" {
			return fmt.Errorf("%w: notifier.webhook.url is required", ErrInvalid)
		}
	case PublisherRabbitMQ:
		if c.Notifier.RabbitMQ.URL == "" {
			return fmt.Errorf("%w: notifier.rabbitmq.url is required", ErrInvalid)
		}
	case PublisherKafka:
		if len(c.Notifier.Kafka.Brokers) == 0 {
			return fmt.Errorf("%w: notifier.kafka.brokers is required", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown notifier.publisher %q", ErrInvalid, c.Notifier.Publisher)
	}

	switch strings.ToLower(c.Booking.DefaultStatus) {
	case "confirmed", "pending":
	default:
		return fmt.Errorf("%w: booking.default_status must be confirmed or pending, got %q",
			ErrInvalid, c.Booking.DefaultStatus)
	}

	return nil
}

func setDefault(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
