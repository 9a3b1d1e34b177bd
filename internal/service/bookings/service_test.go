package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-RentalService/internal/integrations/notifier"
	"github.com/m04kA/SMC-RentalService/internal/service/availability"
	"github.com/m04kA/SMC-RentalService/internal/service/bookings/models"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(domain.DateFormat, s)
	require.NoError(t, err)
	return d
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type recordingDispatcher struct {
	mu     sync.Mutex
	events []notifier.Event
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, event notifier.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *recordingDispatcher) types() []notifier.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	result := make([]notifier.EventType, 0, len(d.events))
	for _, e := range d.events {
		result = append(result, e.Type)
	}
	return result
}

type countingMetrics struct{ cancelled int }

func (m *countingMetrics) BookingCancelled() { m.cancelled++ }

type fixture struct {
	store      *memory.Store
	service    *Service
	dispatcher *recordingDispatcher
	metrics    *countingMetrics
	unit       *domain.Unit
	now        time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	unit, err := store.Units().Create(context.Background(), &domain.Unit{Name: "Suite", Capacity: 2, BasePrice: 15000})
	require.NoError(t, err)

	dispatcher := &recordingDispatcher{}
	metrics := &countingMetrics{}
	oracle := availability.NewOracle(store.Bookings(), store.Blocks(), logger.Nop())
	service := NewService(store.Bookings(), store.Blocks(), store.Units(), oracle, store.TxManager(), dispatcher, metrics, logger.Nop())

	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	service.timeProvider = fixedTime{now: now}

	return &fixture{store: store, service: service, dispatcher: dispatcher, metrics: metrics, unit: unit, now: now}
}

func (f *fixture) booking(t *testing.T, checkin, checkout string, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		UnitID:    f.unit.ID,
		GuestName: "Guest",
		Adults:    1,
		Checkin:   day(t, checkin),
		Checkout:  day(t, checkout),
		Total:     30000,
		Status:    status,
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) block(t *testing.T, start, end string, owner *int64) *domain.Block {
	t.Helper()
	b, err := f.store.Blocks().Create(context.Background(), &domain.Block{
		UnitID:             f.unit.ID,
		StartDate:          day(t, start),
		EndDate:            day(t, end),
		Source:             domain.LockSourceOTA,
		LockOwnerBookingID: owner,
	})
	require.NoError(t, err)
	return b
}

func TestService_GetByID(t *testing.T) {
	f := newFixture(t)
	booking := f.booking(t, "2025-05-01", "2025-05-03", domain.StatusConfirmed)

	resp, err := f.service.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-05-01", resp.Checkin)
	assert.Equal(t, "2025-05-03", resp.Checkout)
	assert.Equal(t, 2, resp.Nights)
	assert.Equal(t, "CONFIRMED", resp.Status)

	_, err = f.service.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestService_CancelReleasesOwnedBlocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.booking(t, "2025-05-01", "2025-05-04", domain.StatusConfirmed)
	owned := f.block(t, "2025-05-01", "2025-05-04", ptr.Ptr(booking.ID))
	foreign := f.block(t, "2025-06-01", "2025-06-02", nil)

	resp, err := f.service.Cancel(ctx, booking.ID, &models.CancelBookingRequest{Reason: ptr.Ptr("guest request")})
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "guest request", *resp.CancellationReason)
	require.NotNil(t, resp.CancelledAt)
	assert.Equal(t, f.now.Format(time.RFC3339), *resp.CancelledAt)

	_, err = f.store.Blocks().GetByID(ctx, owned.ID)
	assert.Error(t, err)
	_, err = f.store.Blocks().GetByID(ctx, foreign.ID)
	assert.NoError(t, err)

	assert.Equal(t, []notifier.EventType{notifier.EventBookingCancelled, notifier.EventBlockReleased}, f.dispatcher.types())
	assert.Equal(t, 1, f.metrics.cancelled)

	// повторная отмена не допускается
	_, err = f.service.Cancel(ctx, booking.ID, &models.CancelBookingRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestService_CancelUnknownBooking(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Cancel(context.Background(), 404, &models.CancelBookingRequest{})
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestService_Confirm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.booking(t, "2025-05-01", "2025-05-04", domain.StatusPending)
	f.block(t, "2025-05-01", "2025-05-04", ptr.Ptr(booking.ID))

	resp, err := f.service.Confirm(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.Equal(t, []notifier.EventType{notifier.EventBookingConfirmed}, f.dispatcher.types())

	_, err = f.service.Confirm(ctx, booking.ID)
	assert.ErrorIs(t, err, ErrCannotConfirm)
}

func TestService_ConfirmRejectsForeignBlock(t *testing.T) {
	f := newFixture(t)
	booking := f.booking(t, "2025-05-01", "2025-05-04", domain.StatusPending)
	// оператор перекрыл неподтверждённое бронирование блоком
	block := f.block(t, "2025-05-02", "2025-05-03", nil)

	_, err := f.service.Confirm(context.Background(), booking.ID)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.NotNil(t, conflict.BlockID)
	assert.Equal(t, block.ID, *conflict.BlockID)

	stored, err := f.store.Bookings().GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestService_ListByUnit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.booking(t, "2025-05-01", "2025-05-03", domain.StatusConfirmed)
	cancelled := f.booking(t, "2025-05-03", "2025-05-05", domain.StatusConfirmed)
	f.booking(t, "2025-07-01", "2025-07-03", domain.StatusPending)
	require.NoError(t, f.store.Bookings().Cancel(ctx, cancelled.ID, nil, f.now))

	resp, err := f.service.ListByUnit(ctx, &models.ListBookingsRequest{UnitID: f.unit.ID})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	resp, err = f.service.ListByUnit(ctx, &models.ListBookingsRequest{UnitID: f.unit.ID, IncludeCancelled: true})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 3)

	from, to := day(t, "2025-06-01"), day(t, "2025-08-01")
	resp, err = f.service.ListByUnit(ctx, &models.ListBookingsRequest{UnitID: f.unit.ID, From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "2025-07-01", resp.Bookings[0].Checkin)

	_, err = f.service.ListByUnit(ctx, &models.ListBookingsRequest{UnitID: 999})
	assert.ErrorIs(t, err, domain.ErrUnitNotFound)

	_, err = f.service.ListByUnit(ctx, &models.ListBookingsRequest{UnitID: f.unit.ID, From: &to, To: &from})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
