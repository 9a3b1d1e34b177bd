package models

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ListBookingsRequest запрос на получение бронирований юнита
type ListBookingsRequest struct {
	UnitID           int64
	From             *time.Time
	To               *time.Time
	IncludeCancelled bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() domain.BookingsFilter {
	return domain.BookingsFilter{
		UnitID:           r.UnitID,
		From:             r.From,
		To:               r.To,
		IncludeCancelled: r.IncludeCancelled,
	}
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64   `json:"id"`
	UnitID     int64   `json:"unitId"`
	GuestName  string  `json:"guestName"`
	GuestEmail *string `json:"guestEmail,omitempty"`
	GuestPhone *string `json:"guestPhone,omitempty"`
	Adults     int     `json:"adults"`
	Children   int     `json:"children"`
	Checkin    string  `json:"checkin"`  // "2025-06-05"
	Checkout   string  `json:"checkout"` // не включительно
	Nights     int     `json:"nights"`
	Total      int64   `json:"total"`
	Status     string  `json:"status"`
	Notes      *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		UnitID:             b.UnitID,
		GuestName:          b.GuestName,
		GuestEmail:         b.GuestEmail,
		GuestPhone:         b.GuestPhone,
		Adults:             b.Adults,
		Children:           b.Children,
		Checkin:            dates.Format(b.Checkin),
		Checkout:           dates.Format(b.Checkout),
		Nights:             b.NightCount(),
		Total:              b.Total,
		Status:             string(b.Status),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelled := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}
