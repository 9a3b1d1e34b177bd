package list_unit_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/service/bookings/models"
)

const (
	msgInvalidUnitID = "некорректный ID объекта размещения"
	msgInvalidParams = "некорректные параметры запроса"
	msgUnitNotFound  = "объект размещения не найден"
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

// Handle GET /api/v1/units/{unitId}/bookings
// Query params: from, to (YYYY-MM-DD), includeCancelled (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	unitID, err := handlers.PathID(r, "unitId")
	if err != nil {
		h.logger.Warn("GET /units/{id}/bookings - Invalid unit ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUnitID)
		return
	}

	req, err := parseQuery(r, unitID)
	if err != nil {
		h.logger.Warn("GET /units/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListByUnit(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnitNotFound):
			handlers.RespondNotFound(w, msgUnitNotFound)
		case errors.Is(err, domain.ErrValidation):
			handlers.RespondBadRequest(w, msgInvalidParams)
		default:
			h.logger.Error("GET /units/{id}/bookings - Failed to get bookings: unit_id=%d, error=%v", unitID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func parseQuery(r *http.Request, unitID int64) (*models.ListBookingsRequest, error) {
	from, err := handlers.QueryDate(r, "from")
	if err != nil {
		return nil, err
	}
	to, err := handlers.QueryDate(r, "to")
	if err != nil {
		return nil, err
	}
	includeCancelled, err := handlers.QueryBool(r, "includeCancelled")
	if err != nil {
		return nil, err
	}

	return &models.ListBookingsRequest{
		UnitID:           unitID,
		From:             from,
		To:               to,
		IncludeCancelled: includeCancelled,
	}, nil
}
