package cancel_booking

import "github.com/m04kA/SMC-RentalService/internal/service/bookings/models"

// CancelBookingRequest HTTP request model. Тело необязательно.
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest() *models.CancelBookingRequest {
	return &models.CancelBookingRequest{Reason: r.Reason}
}
