package notifier

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

// EventType тип события
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBlockCreated     EventType = "block.created"
	EventBlockReleased    EventType = "block.released"
)

// Event уведомление, отправляемое после фиксации транзакции
type Event struct {
	ID         string        `json:"id"`
	Type       EventType     `json:"type"`
	OccurredAt time.Time     `json:"occurredAt"`
	UnitID     int64         `json:"unitId"`
	Booking    *BookingEvent `json:"booking,omitempty"`
	Block      *BlockEvent   `json:"block,omitempty"`
}

// BookingEvent данные бронирования в событии
type BookingEvent struct {
	ID       int64  `json:"id"`
	Status   string `json:"status"`
	Checkin  string `json:"checkin"`
	Checkout string `json:"checkout"`
	Total    int64  `json:"total"`
	Guest    string `json:"guestName"`
	Reason   string `json:"reason,omitempty"`
}

// BlockEvent данные блока в событии
type BlockEvent struct {
	ID                 int64  `json:"id"`
	StartDate          string `json:"startDate"`
	EndDate            string `json:"endDate"`
	Reason             string `json:"reason"`
	Source             string `json:"lockSource"`
	LockOwnerBookingID *int64 `json:"lockOwnerBookingId,omitempty"`
}

// NewBookingEvent собирает событие по бронированию
func NewBookingEvent(eventType EventType, booking *domain.Booking) Event {
	payload := &BookingEvent{
		ID:       booking.ID,
		Status:   string(booking.Status),
		Checkin:  dates.Format(booking.Checkin),
		Checkout: dates.Format(booking.Checkout),
		Total:    booking.Total,
		Guest:    booking.GuestName,
	}
	if booking.CancellationReason != nil {
		payload.Reason = *booking.CancellationReason
	}

	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		UnitID:     booking.UnitID,
		Booking:    payload,
	}
}

// NewBlockEvent собирает событие по блоку
func NewBlockEvent(eventType EventType, block *domain.Block) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		UnitID:     block.UnitID,
		Block: &BlockEvent{
			ID:                 block.ID,
			StartDate:          dates.Format(block.StartDate),
			EndDate:            dates.Format(block.EndDate),
			Reason:             block.Reason,
			Source:             string(block.Source),
			LockOwnerBookingID: block.LockOwnerBookingID,
		},
	}
}

// Key ключ партиционирования: события одного юнита идут по порядку
func (e Event) Key() string {
	return "unit-" + strconv.FormatInt(e.UnitID, 10)
}
