package create_booking

import (
	"github.com/m04kA/SMC-RentalService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-RentalService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	UnitID              int64   `json:"unitId" validate:"required,gt=0"`
	GuestName           string  `json:"guestName" validate:"required,max=200"`
	GuestEmail          *string `json:"guestEmail,omitempty" validate:"omitempty,email"`
	GuestPhone          *string `json:"guestPhone,omitempty" validate:"omitempty,max=32"`
	Adults              int     `json:"adults" validate:"required,gte=1"`
	Children            int     `json:"children" validate:"gte=0"`
	Checkin             string  `json:"checkin" validate:"required"`  // "2025-06-05"
	Checkout            string  `json:"checkout" validate:"required"` // не включительно
	Notes               *string `json:"notes,omitempty" validate:"omitempty,max=500"`
	RequireConfirmation bool    `json:"requireConfirmation"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Booking         *models.BookingResponse `json:"booking"`
	NightCount      int                     `json:"nightCount"`
	MinStayRequired int                     `json:"minStayRequired"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	checkin, err := dates.Parse(r.Checkin)
	if err != nil {
		return nil, err
	}
	checkout, err := dates.Parse(r.Checkout)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UnitID:              r.UnitID,
		GuestName:           r.GuestName,
		GuestEmail:          r.GuestEmail,
		GuestPhone:          r.GuestPhone,
		Adults:              r.Adults,
		Children:            r.Children,
		Checkin:             checkin,
		Checkout:            checkout,
		Notes:               r.Notes,
		RequireConfirmation: r.RequireConfirmation,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		Booking:         models.FromDomainBooking(resp.Booking),
		NightCount:      resp.Quote.NightCount,
		MinStayRequired: resp.Quote.MinStayRequired,
	}
}
