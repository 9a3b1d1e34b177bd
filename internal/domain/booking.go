package domain

import (
	"time"

	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// IsValid проверяет, что статус известен
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Booking бронирование юнита на диапазон ночей [Checkin, Checkout)
type Booking struct {
	ID     int64
	UnitID int64

	GuestName  string
	GuestEmail *string
	GuestPhone *string
	Adults     int
	Children   int

	Checkin  time.Time // включительно
	Checkout time.Time // не включительно
	Total    int64     // в минимальных денежных единицах
	Status   BookingStatus
	Notes    *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive бронирование занимает даты (PENDING или CONFIRMED)
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.IsActive()
}

// CanBeConfirmed returns true if the booking waits for manual confirmation
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPending
}

// Guests общее количество гостей
func (b *Booking) Guests() int {
	return b.Adults + b.Children
}

// NightCount количество ночей
func (b *Booking) NightCount() int {
	n, err := dates.NightCount(b.Checkin, b.Checkout)
	if err != nil {
		return 0
	}
	return n
}

// Overlaps пересекается ли бронирование с диапазоном [start, end)
func (b *Booking) Overlaps(start, end time.Time) bool {
	return dates.RangesOverlap(b.Checkin, b.Checkout, start, end)
}

// BookingsFilter фильтр для получения бронирований юнита
type BookingsFilter struct {
	UnitID           int64      // Обязательный параметр
	From             *time.Time // бронирования, заканчивающиеся после From
	To               *time.Time // бронирования, начинающиеся до To
	IncludeCancelled bool
}

// ActiveStatuses статусы, которые занимают даты
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
