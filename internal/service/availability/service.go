package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

// Oracle проверяет, свободен ли юнит на диапазон дат.
// Сам по себе не защищает от гонок: транзакционные сценарии вызывают его
// внутри сериализуемой транзакции.
type Oracle struct {
	bookingRepo BookingRepository
	blockRepo   BlockRepository
	logger      Logger
}

// NewOracle создает новый экземпляр Oracle
func NewOracle(bookingRepo BookingRepository, blockRepo BlockRepository, logger Logger) *Oracle {
	return &Oracle{
		bookingRepo: bookingRepo,
		blockRepo:   blockRepo,
		logger:      logger,
	}
}

// IsAvailable true, если диапазон не пересекается с активными бронированиями и блоками
func (o *Oracle) IsAvailable(ctx context.Context, unitID int64, checkin, checkout time.Time) (bool, error) {
	conflict, err := o.FindConflict(ctx, ForBooking(unitID, checkin, checkout))
	if err != nil {
		return false, err
	}
	return conflict == nil, nil
}

// FindConflict загружает бронирования и блоки юнита в диапазоне и ищет конфликт
func (o *Oracle) FindConflict(ctx context.Context, check Check) (*domain.ConflictError, error) {
	if err := dates.ValidateRange(check.Start, check.End); err != nil {
		return nil, err
	}

	var bookings []*domain.Booking
	if len(check.Statuses) > 0 {
		found, err := o.bookingRepo.GetOverlapping(ctx, check.UnitID, check.Start, check.End, check.Statuses)
		if err != nil {
			o.logger.Error("FindConflict: failed to get bookings for unit=%d: %v", check.UnitID, err)
			return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}
		bookings = found
	}

	var blocks []*domain.Block
	if !check.SkipBlocks {
		found, err := o.blockRepo.GetOverlapping(ctx, check.UnitID, check.Start, check.End)
		if err != nil {
			o.logger.Error("FindConflict: failed to get blocks for unit=%d: %v", check.UnitID, err)
			return nil, fmt.Errorf("%w: failed to get blocks: %w", ErrInternal, err)
		}
		blocks = found
	}

	return FindConflict(check, bookings, blocks), nil
}
