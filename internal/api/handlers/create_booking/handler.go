package create_booking

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange       = "дата выезда должна быть позже даты заезда"
	msgInvalidBooking     = "некорректные данные бронирования"
	msgMinimumStay        = "минимальный срок проживания на эти даты: %d ноч."
	msgUnitNotFound       = "объект размещения не найден"
	msgNoLongerAvailable  = "выбранные даты больше недоступны"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var minStay *domain.MinimumStayError
		switch {
		case errors.As(err, &minStay):
			h.logger.Warn("POST /bookings - Minimum stay not met: unit_id=%d, nights=%d, required=%d",
				req.UnitID, minStay.Nights, minStay.Required)
			handlers.RespondBadRequest(w, fmt.Sprintf(msgMinimumStay, minStay.Required))

		case errors.Is(err, domain.ErrInvalidRange):
			h.logger.Warn("POST /bookings - Invalid range: unit_id=%d, %s..%s", req.UnitID, req.Checkin, req.Checkout)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /bookings - Validation failed: unit_id=%d, error=%v", req.UnitID, err)
			handlers.RespondBadRequest(w, msgInvalidBooking)

		case errors.Is(err, domain.ErrUnitNotFound):
			h.logger.Warn("POST /bookings - Unit not found: unit_id=%d", req.UnitID)
			handlers.RespondNotFound(w, msgUnitNotFound)

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("POST /bookings - Dates no longer available: unit_id=%d, error=%v", req.UnitID, err)
			handlers.RespondConflict(w, msgNoLongerAvailable, err)

		case errors.Is(err, domain.ErrStoreUnavailable):
			h.logger.Error("POST /bookings - Store unavailable: unit_id=%d, error=%v", req.UnitID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: unit_id=%d, error=%v", req.UnitID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, unit_id=%d, status=%s",
		result.Booking.ID, result.Booking.UnitID, result.Booking.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
