package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
)

type fakePublisher struct {
	mu        sync.Mutex
	events    []Event
	failTimes int
	err       error
	calls     atomic.Int32
	started   chan struct{}
	release   chan struct{}
	closed    bool
}

func (p *fakePublisher) Publish(ctx context.Context, event Event) error {
	n := int(p.calls.Add(1))
	if p.started != nil {
		p.started <- struct{}{}
	}
	if p.release != nil {
		<-p.release
	}
	if n <= p.failTimes {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

func (p *fakePublisher) delivered() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

type fakeMetrics struct {
	failed  atomic.Int32
	dropped atomic.Int32
}

func (m *fakeMetrics) NotificationFailed(string) { m.failed.Add(1) }
func (m *fakeMetrics) NotificationDropped()      { m.dropped.Add(1) }

func fastConfig() Config {
	return Config{QueueSize: 8, MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

func bookingEvent(id int64) Event {
	return NewBookingEvent(EventBookingCreated, &domain.Booking{
		ID:       id,
		UnitID:   1,
		Status:   domain.StatusConfirmed,
		Checkin:  time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		Checkout: time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
		Total:    36000,
	})
}

func TestDispatcher_DeliversAfterRetries(t *testing.T) {
	pub := &fakePublisher{failTimes: 2, err: errors.New("connection refused")}
	m := &fakeMetrics{}
	d := NewDispatcher(pub, fastConfig(), logger.Nop(), m)

	d.Dispatch(context.Background(), bookingEvent(1))
	require.NoError(t, d.Close(context.Background()))

	require.Len(t, pub.delivered(), 1)
	assert.Equal(t, int32(3), pub.calls.Load())
	assert.Equal(t, int32(0), m.failed.Load())
	assert.True(t, pub.closed)
}

func TestDispatcher_GivesUpAfterMaxAttempts(t *testing.T) {
	pub := &fakePublisher{failTimes: 100, err: errors.New("timeout")}
	m := &fakeMetrics{}
	d := NewDispatcher(pub, fastConfig(), logger.Nop(), m)

	d.Dispatch(context.Background(), bookingEvent(1))
	require.NoError(t, d.Close(context.Background()))

	assert.Empty(t, pub.delivered())
	assert.Equal(t, int32(3), pub.calls.Load())
	assert.Equal(t, int32(1), m.failed.Load())
}

func TestDispatcher_PermanentErrorNotRetried(t *testing.T) {
	pub := &fakePublisher{failTimes: 100, err: fmt.Errorf("%w: status 400", ErrPermanent)}
	m := &fakeMetrics{}
	d := NewDispatcher(pub, fastConfig(), logger.Nop(), m)

	d.Dispatch(context.Background(), bookingEvent(1))
	require.NoError(t, d.Close(context.Background()))

	assert.Equal(t, int32(1), pub.calls.Load())
	assert.Equal(t, int32(1), m.failed.Load())
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	pub := &fakePublisher{started: make(chan struct{}, 4), release: make(chan struct{})}
	m := &fakeMetrics{}
	d := NewDispatcher(pub, Config{QueueSize: 1, MaxAttempts: 1}, logger.Nop(), m)

	d.Dispatch(context.Background(), bookingEvent(1))
	<-pub.started // воркер занят первым событием

	d.Dispatch(context.Background(), bookingEvent(2)) // занимает буфер
	d.Dispatch(context.Background(), bookingEvent(3)) // отбрасывается

	assert.Equal(t, int32(1), m.dropped.Load())

	close(pub.release)
	require.NoError(t, d.Close(context.Background()))
	assert.Len(t, pub.delivered(), 2)
}

func TestDispatcher_DispatchAfterClose(t *testing.T) {
	pub := &fakePublisher{}
	m := &fakeMetrics{}
	d := NewDispatcher(pub, fastConfig(), logger.Nop(), m)

	require.NoError(t, d.Close(context.Background()))
	require.NoError(t, d.Close(context.Background()))

	assert.NotPanics(t, func() { d.Dispatch(context.Background(), bookingEvent(1)) })
	assert.Equal(t, int32(1), m.dropped.Load())
}

func TestNewBlockEvent(t *testing.T) {
	owner := int64(15)
	event := NewBlockEvent(EventBlockCreated, &domain.Block{
		ID:                 4,
		UnitID:             9,
		StartDate:          time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:            time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC),
		Source:             domain.LockSourceOTA,
		LockOwnerBookingID: &owner,
	})

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "unit-9", event.Key())
	require.NotNil(t, event.Block)
	assert.Equal(t, "2025-07-01", event.Block.StartDate)
	assert.Equal(t, "OTA", event.Block.Source)
	assert.Nil(t, event.Booking)
}
