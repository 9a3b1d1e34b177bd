package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/integrations/notifier"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
)

func testEvent() notifier.Event {
	return notifier.NewBookingEvent(notifier.EventBookingCreated, &domain.Booking{
		ID:       12,
		UnitID:   3,
		Status:   domain.StatusConfirmed,
		Checkin:  time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		Checkout: time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
		Total:    36000,
	})
}

func TestClient_Publish(t *testing.T) {
	var received notifier.Event
	var headers http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "s3cret", time.Second, logger.Nop())
	event := testEvent()

	require.NoError(t, client.Publish(context.Background(), event))

	assert.Equal(t, event.ID, received.ID)
	assert.Equal(t, notifier.EventBookingCreated, received.Type)
	require.NotNil(t, received.Booking)
	assert.Equal(t, "2025-06-05", received.Booking.Checkin)
	assert.Equal(t, "booking.created", headers.Get("X-Event-Type"))
	assert.Equal(t, "s3cret", headers.Get("X-Webhook-Secret"))
}

func TestClient_PublishStatusHandling(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		permanent bool
	}{
		{"bad request is permanent", http.StatusBadRequest, true},
		{"gone is permanent", http.StatusGone, true},
		{"too many requests is retried", http.StatusTooManyRequests, false},
		{"server error is retried", http.StatusBadGateway, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "", time.Second, logger.Nop())
			err := client.Publish(context.Background(), testEvent())

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidResponse)
			assert.Equal(t, tt.permanent, errors.Is(err, notifier.ErrPermanent))
		})
	}
}

func TestClient_PublishUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, "", 200*time.Millisecond, logger.Nop())
	err := client.Publish(context.Background(), testEvent())

	assert.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, notifier.ErrPermanent)
}
