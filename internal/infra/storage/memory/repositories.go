package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	blockRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/block"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	rateRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/rate"
	unitRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/unit"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

// UnitRepository юниты в памяти
type UnitRepository struct {
	store *Store
}

func (r *UnitRepository) Create(ctx context.Context, unit *domain.Unit) (*domain.Unit, error) {
	s := r.store
	defer s.lock(ctx)()

	now := time.Now().UTC()
	unit.ID = s.nextID()
	unit.CreatedAt = now
	unit.UpdatedAt = now
	s.units[unit.ID] = *copyUnit(*unit)

	return unit, nil
}

func (r *UnitRepository) GetByID(ctx context.Context, id int64) (*domain.Unit, error) {
	s := r.store
	defer s.lock(ctx)()

	unit, ok := s.units[id]
	if !ok {
		return nil, unitRepo.ErrUnitNotFound
	}
	return copyUnit(unit), nil
}

// BookingRepository бронирования в памяти
type BookingRepository struct {
	store *Store
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s := r.store
	defer s.lock(ctx)()

	now := time.Now().UTC()
	booking.ID = s.nextID()
	booking.Checkin = dates.Normalize(booking.Checkin)
	booking.Checkout = dates.Normalize(booking.Checkout)
	booking.CreatedAt = now
	booking.UpdatedAt = now
	s.bookings[booking.ID] = *copyBooking(*booking)

	return booking, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	s := r.store
	defer s.lock(ctx)()

	booking, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return copyBooking(booking), nil
}

func (r *BookingRepository) GetOverlapping(
	ctx context.Context,
	unitID int64,
	start, end time.Time,
	statuses []domain.BookingStatus,
) ([]*domain.Booking, error) {
	s := r.store
	defer s.lock(ctx)()

	result := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if b.UnitID != unitID || !slices.Contains(statuses, b.Status) {
			continue
		}
		if b.Overlaps(start, end) {
			result = append(result, copyBooking(b))
		}
	}
	sortBookings(result)

	return result, nil
}

func (r *BookingRepository) GetByUnit(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	s := r.store
	defer s.lock(ctx)()

	result := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if b.UnitID != filter.UnitID {
			continue
		}
		if !filter.IncludeCancelled && !b.IsActive() {
			continue
		}
		if filter.From != nil && !b.Checkout.After(*filter.From) {
			continue
		}
		if filter.To != nil && !b.Checkin.Before(*filter.To) {
			continue
		}
		result = append(result, copyBooking(b))
	}
	sortBookings(result)

	return result, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	s := r.store
	defer s.lock(ctx)()

	booking, ok := s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	booking.Status = status
	booking.UpdatedAt = time.Now().UTC()
	s.bookings[id] = booking

	return nil
}

func (r *BookingRepository) Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) error {
	s := r.store
	defer s.lock(ctx)()

	booking, ok := s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	booking.Status = domain.StatusCancelled
	booking.CancellationReason = cloneString(reason)
	booking.CancelledAt = &cancelledAt
	booking.UpdatedAt = time.Now().UTC()
	s.bookings[id] = booking

	return nil
}

func sortBookings(bookings []*domain.Booking) {
	slices.SortFunc(bookings, func(a, b *domain.Booking) int {
		if c := a.Checkin.Compare(b.Checkin); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// BlockRepository блоки в памяти
type BlockRepository struct {
	store *Store
}

func (r *BlockRepository) Create(ctx context.Context, block *domain.Block) (*domain.Block, error) {
	s := r.store
	defer s.lock(ctx)()

	block.ID = s.nextID()
	block.StartDate = dates.Normalize(block.StartDate)
	block.EndDate = dates.Normalize(block.EndDate)
	block.CreatedAt = time.Now().UTC()
	s.blocks[block.ID] = *copyBlock(*block)

	return block, nil
}

func (r *BlockRepository) GetByID(ctx context.Context, id int64) (*domain.Block, error) {
	s := r.store
	defer s.lock(ctx)()

	block, ok := s.blocks[id]
	if !ok {
		return nil, blockRepo.ErrBlockNotFound
	}
	return copyBlock(block), nil
}

func (r *BlockRepository) GetOverlapping(ctx context.Context, unitID int64, start, end time.Time) ([]*domain.Block, error) {
	s := r.store
	defer s.lock(ctx)()

	result := make([]*domain.Block, 0)
	for _, b := range s.blocks {
		if b.UnitID == unitID && b.Overlaps(start, end) {
			result = append(result, copyBlock(b))
		}
	}
	sortBlocks(result)

	return result, nil
}

func (r *BlockRepository) GetByUnit(ctx context.Context, unitID int64, from, to *time.Time) ([]*domain.Block, error) {
	s := r.store
	defer s.lock(ctx)()

	result := make([]*domain.Block, 0)
	for _, b := range s.blocks {
		if b.UnitID != unitID {
			continue
		}
		if from != nil && !b.EndDate.After(*from) {
			continue
		}
		if to != nil && !b.StartDate.Before(*to) {
			continue
		}
		result = append(result, copyBlock(b))
	}
	sortBlocks(result)

	return result, nil
}

func (r *BlockRepository) Delete(ctx context.Context, id int64) (bool, error) {
	s := r.store
	defer s.lock(ctx)()

	if _, ok := s.blocks[id]; !ok {
		return false, nil
	}
	delete(s.blocks, id)

	return true, nil
}

func (r *BlockRepository) DeleteByOwner(ctx context.Context, bookingID int64) ([]*domain.Block, error) {
	s := r.store
	defer s.lock(ctx)()

	released := make([]*domain.Block, 0)
	for id, b := range s.blocks {
		if b.IsOwnedBy(bookingID) {
			released = append(released, copyBlock(b))
			delete(s.blocks, id)
		}
	}
	sortBlocks(released)

	return released, nil
}

func sortBlocks(blocks []*domain.Block) {
	slices.SortFunc(blocks, func(a, b *domain.Block) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// RateRepository ценовые периоды в памяти
type RateRepository struct {
	store *Store
}

func (r *RateRepository) Create(ctx context.Context, period *domain.RatePeriod) (*domain.RatePeriod, error) {
	s := r.store
	defer s.lock(ctx)()

	period.ID = s.nextID()
	period.StartDate = dates.Normalize(period.StartDate)
	period.EndDate = dates.Normalize(period.EndDate)
	period.CreatedAt = time.Now().UTC()
	s.rates[period.ID] = copyPeriod(*period)

	return period, nil
}

func (r *RateRepository) GetByID(ctx context.Context, id int64) (*domain.RatePeriod, error) {
	s := r.store
	defer s.lock(ctx)()

	period, ok := s.rates[id]
	if !ok {
		return nil, rateRepo.ErrRateNotFound
	}
	result := copyPeriod(period)
	return &result, nil
}

// GetByUnit возвращает периоды юнита в порядке создания
func (r *RateRepository) GetByUnit(ctx context.Context, unitID int64) ([]domain.RatePeriod, error) {
	s := r.store
	defer s.lock(ctx)()

	result := make([]domain.RatePeriod, 0)
	for _, p := range s.rates {
		if p.UnitID == unitID {
			result = append(result, copyPeriod(p))
		}
	}
	slices.SortFunc(result, func(a, b domain.RatePeriod) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return result, nil
}

func (r *RateRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	defer s.lock(ctx)()

	if _, ok := s.rates[id]; !ok {
		return rateRepo.ErrRateNotFound
	}
	delete(s.rates, id)

	return nil
}
