package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/infra/cache/ratecache"
	"github.com/m04kA/SMC-RentalService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-RentalService/internal/integrations/notifier"
	"github.com/m04kA/SMC-RentalService/internal/service/availability"
	"github.com/m04kA/SMC-RentalService/internal/service/rates"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
	"github.com/m04kA/SMC-RentalService/pkg/txmanager"
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
	mu        sync.Mutex
	created   map[string]int
	conflicts int
}

func (m *countingMetrics) BookingCreated(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.created == nil {
		m.created = make(map[string]int)
	}
	m.created[status]++
}

func (m *countingMetrics) BookingConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts++
}

type failingTxManager struct {
	err error
}

func (m failingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.err
}

type fixture struct {
	store      *memory.Store
	rates      *rates.Service
	dispatcher *recordingDispatcher
	metrics    *countingMetrics
	unit       *domain.Unit
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	unit, err := store.Units().Create(context.Background(), &domain.Unit{
		PropertyID: 1,
		Name:       "Sea view",
		Capacity:   3,
		BasePrice:  10000,
	})
	require.NoError(t, err)

	return &fixture{
		store:      store,
		rates:      rates.NewService(store.Rates(), store.Units(), ratecache.Noop{}, logger.Nop()),
		dispatcher: &recordingDispatcher{},
		metrics:    &countingMetrics{},
		unit:       unit,
	}
}

func (f *fixture) useCase(tx TransactionManager, defaultStatus domain.BookingStatus) *UseCase {
	oracle := availability.NewOracle(f.store.Bookings(), f.store.Blocks(), logger.Nop())
	return NewUseCase(f.store.Units(), f.store.Bookings(), f.rates, oracle, tx, f.dispatcher, f.metrics, defaultStatus, logger.Nop())
}

func (f *fixture) request(t *testing.T, checkin, checkout string) *Request {
	return &Request{
		UnitID:    f.unit.ID,
		GuestName: "Anna",
		Adults:    2,
		Checkin:   day(t, checkin),
		Checkout:  day(t, checkout),
	}
}

func TestExecute_CreatesConfirmedBookingWithQuotedTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.rates.Create(ctx, &rates.CreateRequest{
		UnitID:       f.unit.ID,
		StartDate:    day(t, "2025-06-01"),
		EndDate:      day(t, "2025-09-01"),
		WeekdayPrice: ptr.Ptr(int64(12000)),
		WeekendPrice: ptr.Ptr(int64(12000)),
		MinStay:      2,
	})
	require.NoError(t, err)

	uc := f.useCase(f.store.TxManager(), domain.StatusConfirmed)
	resp, err := uc.Execute(ctx, f.request(t, "2025-06-05", "2025-06-08"))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, resp.Booking.Status)
	assert.Equal(t, int64(36000), resp.Booking.Total)
	assert.Equal(t, 3, resp.Quote.NightCount)
	assert.Equal(t, 2, resp.Quote.MinStayRequired)

	stored, err := f.store.Bookings().GetByID(ctx, resp.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(36000), stored.Total)

	require.Len(t, f.dispatcher.events, 1)
	assert.Equal(t, notifier.EventBookingCreated, f.dispatcher.events[0].Type)
	assert.Equal(t, 1, f.metrics.created["CONFIRMED"])
}

func TestExecute_RequireConfirmationCreatesPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.useCase(f.store.TxManager(), domain.StatusConfirmed)

	req := f.request(t, "2025-07-01", "2025-07-03")
	req.RequireConfirmation = true
	resp, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, resp.Booking.Status)

	// PENDING занимает даты так же, как CONFIRMED
	_, err = uc.Execute(ctx, f.request(t, "2025-07-02", "2025-07-04"))
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.NotNil(t, conflict.BookingID)
	assert.Equal(t, resp.Booking.ID, *conflict.BookingID)
}

func TestExecute_DefaultStatusPending(t *testing.T) {
	f := newFixture(t)
	uc := f.useCase(f.store.TxManager(), domain.StatusPending)

	resp, err := uc.Execute(context.Background(), f.request(t, "2025-07-01", "2025-07-03"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, resp.Booking.Status)
}

func TestExecute_BackToBackBookingsSucceed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.useCase(f.store.TxManager(), domain.StatusConfirmed)

	_, err := uc.Execute(ctx, f.request(t, "2025-07-01", "2025-07-04"))
	require.NoError(t, err)
	_, err = uc.Execute(ctx, f.request(t, "2025-07-04", "2025-07-06"))
	require.NoError(t, err)
	_, err = uc.Execute(ctx, f.request(t, "2025-06-28", "2025-07-01"))
	require.NoError(t, err)

	bookings, err := f.store.Bookings().GetByUnit(ctx, domain.BookingsFilter{UnitID: f.unit.ID})
	require.NoError(t, err)
	assert.Len(t, bookings, 3)
}

func TestExecute_ConflictsWithBlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	block, err := f.store.Blocks().Create(ctx, &domain.Block{
		UnitID:    f.unit.ID,
		StartDate: day(t, "2025-07-02"),
		EndDate:   day(t, "2025-07-03"),
		Reason:    "maintenance",
		Source:    domain.LockSourceSystem,
	})
	require.NoError(t, err)

	uc := f.useCase(f.store.TxManager(), domain.StatusConfirmed)
	_, err = uc.Execute(ctx, f.request(t, "2025-07-01", "2025-07-05"))

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.NotNil(t, conflict.BlockID)
	assert.Equal(t, block.ID, *conflict.BlockID)
	assert.Equal(t, 1, f.metrics.conflicts)
	assert.Empty(t, f.dispatcher.events)
}

func TestExecute_ConcurrentOverlappingRequests(t *testing.T) {
	f := newFixture(t)
	uc := f.useCase(f.store.TxManager(), domain.StatusConfirmed)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
		others    []error
	)

	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start

			// пересекающиеся диапазоны вокруг 2025-08-10
			req := f.request(t, fmt.Sprintf("2025-08-%02d", 8+i%3), fmt.Sprintf("2025-08-%02d", 11+i%2))
			_, err := uc.Execute(context.Background(), req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Empty(t, others)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)

	bookings, err := f.store.Bookings().GetByUnit(context.Background(), domain.BookingsFilter{UnitID: f.unit.ID})
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestExecute_MinimumStayRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.rates.Create(ctx, &rates.CreateRequest{
		UnitID:    f.unit.ID,
		StartDate: day(t, "2025-06-01"),
		EndDate:   day(t, "2025-09-01"),
		MinStay:   3,
	})
	require.NoError(t, err)

	uc := f.useCase(f.store.TxManager(), domain.StatusConfirmed)
	_, err = uc.Execute(ctx, f.request(t, "2025-06-10", "2025-06-12"))

	var minStay *domain.MinimumStayError
	require.ErrorAs(t, err, &minStay)
	assert.Equal(t, 3, minStay.Required)
	assert.Equal(t, 2, minStay.Nights)

	bookings, err := f.store.Bookings().GetByUnit(ctx, domain.BookingsFilter{UnitID: f.unit.ID})
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture(t)
	uc := f.useCase(f.store.TxManager(), domain.StatusConfirmed)

	tests := []struct {
		name    string
		modify  func(r *Request)
		wantErr error
	}{
		{name: "no adults", modify: func(r *Request) { r.Adults = 0 }, wantErr: domain.ErrValidation},
		{name: "negative children", modify: func(r *Request) { r.Children = -1 }, wantErr: domain.ErrValidation},
		{name: "empty guest name", modify: func(r *Request) { r.GuestName = "  " }, wantErr: domain.ErrValidation},
		{name: "over capacity", modify: func(r *Request) { r.Adults, r.Children = 2, 2 }, wantErr: domain.ErrValidation},
		{name: "zero nights", modify: func(r *Request) { r.Checkout = r.Checkin }, wantErr: domain.ErrInvalidRange},
		{name: "reversed range", modify: func(r *Request) { r.Checkin, r.Checkout = r.Checkout, r.Checkin }, wantErr: domain.ErrInvalidRange},
		{name: "longer than max stay", modify: func(r *Request) { r.Checkout = r.Checkin.AddDate(2, 0, 0) }, wantErr: domain.ErrValidation},
		{name: "unknown unit", modify: func(r *Request) { r.UnitID = 999 }, wantErr: domain.ErrUnitNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request(t, "2025-07-01", "2025-07-03")
			tt.modify(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_ConfiguredMaxStay(t *testing.T) {
	f := newFixture(t)
	uc := f.useCase(f.store.TxManager(), domain.StatusConfirmed).WithMaxStay(7)

	_, err := uc.Execute(context.Background(), f.request(t, "2025-07-01", "2025-07-09"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	resp, err := uc.Execute(context.Background(), f.request(t, "2025-07-01", "2025-07-08"))
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Quote.NightCount)
}

// shrinkingUnits отдаёт юнит с меньшей вместимостью на всех чтениях после первого
type shrinkingUnits struct {
	UnitRepository
	mu       sync.Mutex
	reads    int
	capacity int
}

func (u *shrinkingUnits) GetByID(ctx context.Context, id int64) (*domain.Unit, error) {
	unit, err := u.UnitRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.reads++
	if u.reads > 1 {
		unit.Capacity = u.capacity
	}
	return unit, nil
}

func TestExecute_CapacityRecheckedOnLockedUnit(t *testing.T) {
	f := newFixture(t)
	units := &shrinkingUnits{UnitRepository: f.store.Units(), capacity: 1}
	oracle := availability.NewOracle(f.store.Bookings(), f.store.Blocks(), logger.Nop())
	uc := NewUseCase(units, f.store.Bookings(), f.rates, oracle, f.store.TxManager(),
		f.dispatcher, f.metrics, domain.StatusConfirmed, logger.Nop())

	_, err := uc.Execute(context.Background(), f.request(t, "2025-07-01", "2025-07-03"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 2, units.reads)

	bookings, err := f.store.Bookings().GetByUnit(context.Background(), domain.BookingsFilter{UnitID: f.unit.ID})
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestExecute_TransactionErrorsClassified(t *testing.T) {
	f := newFixture(t)

	serialization := fmt.Errorf("%w: %w", txmanager.ErrSerialization, &pq.Error{Code: "40001"})
	uc := f.useCase(failingTxManager{err: serialization}, domain.StatusConfirmed)
	_, err := uc.Execute(context.Background(), f.request(t, "2025-07-01", "2025-07-03"))
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, f.unit.ID, conflict.UnitID)

	begin := fmt.Errorf("%w: connection refused", txmanager.ErrBeginTx)
	uc = f.useCase(failingTxManager{err: begin}, domain.StatusConfirmed)
	_, err = uc.Execute(context.Background(), f.request(t, "2025-07-01", "2025-07-03"))
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, domain.ErrConflict)
}
