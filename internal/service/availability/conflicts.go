package availability

import (
	"slices"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
)

// Check описывает, что считается конфликтом для диапазона [Start, End)
type Check struct {
	UnitID int64
	Start  time.Time
	End    time.Time

	// Statuses статусы бронирований, с которыми диапазон не может пересекаться.
	// Пустой список означает, что бронирования не проверяются.
	Statuses []domain.BookingStatus

	// ExcludeBookingID бронирование, которое не считается конфликтом
	// (владелец создаваемого блока или подтверждаемое бронирование)
	ExcludeBookingID *int64

	// ExcludeBlocksOwnedBy блоки этого бронирования не считаются конфликтом
	ExcludeBlocksOwnedBy *int64

	// SkipBlocks не проверять блоки
	SkipBlocks bool
}

// ForBooking проверка для нового бронирования: любые активные бронирования и все блоки
func ForBooking(unitID int64, checkin, checkout time.Time) Check {
	return Check{
		UnitID:   unitID,
		Start:    checkin,
		End:      checkout,
		Statuses: domain.ActiveStatuses,
	}
}

// Policy политика конфликтов для блоков
type Policy struct {
	// BlockConflictsWithPending блок нельзя положить поверх PENDING-бронирования.
	// По умолчанию оператор может перекрыть неподтверждённое бронирование.
	BlockConflictsWithPending bool
}

// BlockStatuses статусы бронирований, с которыми конфликтует новый блок
func (p Policy) BlockStatuses() []domain.BookingStatus {
	if p.BlockConflictsWithPending {
		return domain.ActiveStatuses
	}
	return []domain.BookingStatus{domain.StatusConfirmed}
}

// ForBlock проверка для нового блока.
// Бронирование-владелец блока не конфликтует с ним.
func (p Policy) ForBlock(unitID int64, start, end time.Time, ownerBookingID *int64) Check {
	return Check{
		UnitID:           unitID,
		Start:            start,
		End:              end,
		Statuses:         p.BlockStatuses(),
		ExcludeBookingID: ownerBookingID,
	}
}

// FindConflict возвращает первый конфликт среди переданных бронирований и блоков или nil
func FindConflict(check Check, bookings []*domain.Booking, blocks []*domain.Block) *domain.ConflictError {
	if len(check.Statuses) > 0 {
		for _, b := range bookings {
			if b.UnitID != check.UnitID || !slices.Contains(check.Statuses, b.Status) {
				continue
			}
			if check.ExcludeBookingID != nil && b.ID == *check.ExcludeBookingID {
				continue
			}
			if b.Overlaps(check.Start, check.End) {
				return &domain.ConflictError{UnitID: check.UnitID, BookingID: ptr.Ptr(b.ID)}
			}
		}
	}

	if check.SkipBlocks {
		return nil
	}

	for _, bl := range blocks {
		if bl.UnitID != check.UnitID {
			continue
		}
		if check.ExcludeBlocksOwnedBy != nil && bl.IsOwnedBy(*check.ExcludeBlocksOwnedBy) {
			continue
		}
		if bl.Overlaps(check.Start, check.End) {
			return &domain.ConflictError{UnitID: check.UnitID, BlockID: ptr.Ptr(bl.ID)}
		}
	}

	return nil
}
