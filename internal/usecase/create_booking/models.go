package create_booking

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	UnitID     int64
	GuestName  string
	GuestEmail *string
	GuestPhone *string
	Adults     int
	Children   int
	Checkin    time.Time // включительно
	Checkout   time.Time // не включительно
	Notes      *string

	// RequireConfirmation бронирование создаётся в статусе PENDING
	RequireConfirmation bool
}

// Response созданное бронирование и расчёт, по которому посчитан total
type Response struct {
	Booking *domain.Booking
	Quote   *domain.Quote
}
