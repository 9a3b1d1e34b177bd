package create_block

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
	"github.com/m04kA/SMC-RentalService/pkg/logger"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(domain.DateFormat, s)
	require.NoError(t, err)
	return d
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []notifier.Event
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, event notifier.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

type countingMetrics struct {
	created   map[string]int
	conflicts int
}

func (m *countingMetrics) BlockCreated(source string) {
	if m.created == nil {
		m.created = make(map[string]int)
	}
	m.created[source]++
}

func (m *countingMetrics) BlockConflict() { m.conflicts++ }

type fixture struct {
	store      *memory.Store
	dispatcher *recordingDispatcher
	metrics    *countingMetrics
	unit       *domain.Unit
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	unit, err := store.Units().Create(context.Background(), &domain.Unit{Name: "Loft", Capacity: 2, BasePrice: 9000})
	require.NoError(t, err)
	return &fixture{
		store:      store,
		dispatcher: &recordingDispatcher{},
		metrics:    &countingMetrics{},
		unit:       unit,
	}
}

func (f *fixture) useCase(policy availability.Policy) *UseCase {
	oracle := availability.NewOracle(f.store.Bookings(), f.store.Blocks(), logger.Nop())
	return NewUseCase(f.store.Units(), f.store.Bookings(), f.store.Blocks(), oracle,
		f.store.TxManager(), policy, f.dispatcher, f.metrics, logger.Nop())
}

func (f *fixture) booking(t *testing.T, checkin, checkout string, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		UnitID:    f.unit.ID,
		GuestName: "Guest",
		Adults:    1,
		Checkin:   day(t, checkin),
		Checkout:  day(t, checkout),
		Status:    status,
	})
	require.NoError(t, err)
	return b
}

func TestExecute_CreatesBlockWithSummary(t *testing.T) {
	f := newFixture(t)
	uc := f.useCase(availability.Policy{})

	resp, err := uc.Execute(context.Background(), &Request{
		UnitID:    f.unit.ID,
		StartDate: day(t, "2025-05-01"),
		EndDate:   day(t, "2025-05-04"),
		Reason:    " painting ",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Summary.Nights)
	assert.Equal(t, domain.LockSourceSystem, resp.Block.Source)
	assert.Equal(t, "painting", resp.Block.Reason)
	assert.Equal(t, 1, f.metrics.created["SYSTEM"])
	require.Len(t, f.dispatcher.events, 1)
	assert.Equal(t, notifier.EventBlockCreated, f.dispatcher.events[0].Type)
}

func TestExecute_ConfirmedBookingConflictThenCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.useCase(availability.Policy{})
	booking := f.booking(t, "2025-05-02", "2025-05-05", domain.StatusConfirmed)

	req := &Request{
		UnitID:    f.unit.ID,
		StartDate: day(t, "2025-05-01"),
		EndDate:   day(t, "2025-05-03"),
		Reason:    "owner stay",
	}

	_, err := uc.Execute(ctx, req)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.NotNil(t, conflict.BookingID)
	assert.Equal(t, booking.ID, *conflict.BookingID)
	assert.Equal(t, 1, f.metrics.conflicts)

	require.NoError(t, f.store.Bookings().Cancel(ctx, booking.ID, nil, time.Now()))

	resp, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Summary.Nights)
}

func TestExecute_PendingBookingPolicy(t *testing.T) {
	tests := []struct {
		name         string
		policy       availability.Policy
		wantConflict bool
	}{
		{name: "pending may be preempted", policy: availability.Policy{}, wantConflict: false},
		{name: "pending conflicts", policy: availability.Policy{BlockConflictsWithPending: true}, wantConflict: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.booking(t, "2025-05-02", "2025-05-05", domain.StatusPending)

			_, err := f.useCase(tt.policy).Execute(context.Background(), &Request{
				UnitID:    f.unit.ID,
				StartDate: day(t, "2025-05-03"),
				EndDate:   day(t, "2025-05-04"),
			})
			if tt.wantConflict {
				assert.ErrorIs(t, err, domain.ErrConflict)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExecute_BlocksDoNotOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.useCase(availability.Policy{})

	first, err := uc.Execute(ctx, &Request{UnitID: f.unit.ID, StartDate: day(t, "2025-05-01"), EndDate: day(t, "2025-05-05")})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, &Request{UnitID: f.unit.ID, StartDate: day(t, "2025-05-04"), EndDate: day(t, "2025-05-06")})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.NotNil(t, conflict.BlockID)
	assert.Equal(t, first.Block.ID, *conflict.BlockID)

	// касание границ не пересечение
	_, err = uc.Execute(ctx, &Request{UnitID: f.unit.ID, StartDate: day(t, "2025-05-05"), EndDate: day(t, "2025-05-06")})
	assert.NoError(t, err)
}

func TestExecute_OTAHoldOverOwnBooking(t *testing.T) {
	f := newFixture(t)
	uc := f.useCase(availability.Policy{})
	booking := f.booking(t, "2025-05-02", "2025-05-05", domain.StatusConfirmed)

	resp, err := uc.Execute(context.Background(), &Request{
		UnitID:             f.unit.ID,
		StartDate:          day(t, "2025-05-02"),
		EndDate:            day(t, "2025-05-05"),
		Reason:             "channel hold",
		Source:             domain.LockSourceOTA,
		LockOwnerBookingID: ptr.Ptr(booking.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LockSourceOTA, resp.Block.Source)
	require.NotNil(t, resp.Block.LockOwnerBookingID)
	assert.Equal(t, booking.ID, *resp.Block.LockOwnerBookingID)
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(t)
	uc := f.useCase(availability.Policy{})
	other, err := f.store.Units().Create(context.Background(), &domain.Unit{Name: "Other", Capacity: 1, BasePrice: 1})
	require.NoError(t, err)
	foreign, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		UnitID: other.ID, GuestName: "X", Adults: 1,
		Checkin: day(t, "2025-05-01"), Checkout: day(t, "2025-05-02"), Status: domain.StatusConfirmed,
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "empty range",
			req:     &Request{UnitID: f.unit.ID, StartDate: day(t, "2025-05-01"), EndDate: day(t, "2025-05-01")},
			wantErr: domain.ErrInvalidRange,
		},
		{
			name:    "longer than a year",
			req:     &Request{UnitID: f.unit.ID, StartDate: day(t, "2025-05-01"), EndDate: day(t, "2026-05-03")},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "unknown source",
			req:     &Request{UnitID: f.unit.ID, StartDate: day(t, "2025-05-01"), EndDate: day(t, "2025-05-02"), Source: "MANUAL"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "unknown unit",
			req:     &Request{UnitID: 999, StartDate: day(t, "2025-05-01"), EndDate: day(t, "2025-05-02")},
			wantErr: domain.ErrUnitNotFound,
		},
		{
			name: "owner booking of another unit",
			req: &Request{UnitID: f.unit.ID, StartDate: day(t, "2025-05-01"), EndDate: day(t, "2025-05-02"),
				LockOwnerBookingID: ptr.Ptr(foreign.ID)},
			wantErr: ErrOwnerBookingNotFound,
		},
		{
			name: "missing owner booking",
			req: &Request{UnitID: f.unit.ID, StartDate: day(t, "2025-05-01"), EndDate: day(t, "2025-05-02"),
				LockOwnerBookingID: ptr.Ptr(int64(999))},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	blocks, err := f.store.Blocks().GetByUnit(context.Background(), f.unit.ID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}
