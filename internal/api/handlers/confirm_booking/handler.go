package confirm_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/domain"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgCannotConfirm    = "подтвердить можно только ожидающее бронирование"
	msgNotAvailable     = "даты бронирования заняты"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/confirm - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	booking, err := h.service.Confirm(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("PATCH /bookings/{id}/confirm - Cannot confirm: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgCannotConfirm)

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("PATCH /bookings/{id}/confirm - Dates taken: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondConflict(w, msgNotAvailable, err)

		case errors.Is(err, domain.ErrStoreUnavailable):
			h.logger.Error("PATCH /bookings/{id}/confirm - Store unavailable: %v", err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("PATCH /bookings/{id}/confirm - Failed to confirm booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/confirm - Booking confirmed: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
