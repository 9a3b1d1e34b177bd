package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/integrations/notifier"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client отправляет события POST-запросом на webhook
type Client struct {
	url        string
	secret     string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр webhook клиента
func NewClient(url, secret string, timeout time.Duration, log Logger) *Client {
	return &Client{
		url:    url,
		secret: secret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Publish отправляет событие.
// Ответы 4xx, кроме 408 и 429, считаются окончательным отказом.
func (c *Client) Publish(ctx context.Context, event notifier.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %w: failed to marshal event: %v", notifier.ErrPermanent, ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w: failed to create request: %v", notifier.ErrPermanent, ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Type", string(event.Type))
	req.Header.Set("X-Event-ID", event.ID)
	if c.secret != "" {
		req.Header.Set("X-Webhook-Secret", c.secret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.log.Info("Webhook: event=%s id=%s delivered, status=%d", event.Type, event.ID, resp.StatusCode)
		return nil
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status code %d", ErrInvalidResponse, resp.StatusCode)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %w: status code %d: %s", notifier.ErrPermanent, ErrInvalidResponse, resp.StatusCode, string(respBody))
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}

func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
