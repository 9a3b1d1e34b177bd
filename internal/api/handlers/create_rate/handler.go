package create_rate

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/service/rates"
)

const (
	msgInvalidUnitID      = "некорректный ID объекта размещения"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRate        = "некорректные данные ценового периода"
	msgUnitNotFound       = "объект размещения не найден"
)

type Handler struct {
	service RateService
	logger  Logger
}

func NewHandler(service RateService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/units/{unitId}/rates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	unitID, err := handlers.PathID(r, "unitId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidUnitID)
		return
	}

	var req CreateRateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /units/{id}/rates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(unitID)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	period, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			handlers.RespondBadRequest(w, msgInvalidRate)
		case errors.Is(err, domain.ErrUnitNotFound):
			handlers.RespondNotFound(w, msgUnitNotFound)
		default:
			h.logger.Error("POST /units/{id}/rates - Failed to create rate: unit_id=%d, error=%v", unitID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /units/{id}/rates - Rate created: rate_id=%d, unit_id=%d", period.ID, unitID)
	handlers.RespondJSON(w, http.StatusCreated, rates.FromDomainRate(period))
}
