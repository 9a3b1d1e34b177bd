package list_rates

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/service/rates"
)

const (
	msgInvalidUnitID = "некорректный ID объекта размещения"
	msgUnitNotFound  = "объект размещения не найден"
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

// Handle GET /api/v1/units/{unitId}/rates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	unitID, err := handlers.PathID(r, "unitId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidUnitID)
		return
	}

	periods, err := h.service.List(r.Context(), unitID)
	if err != nil {
		if errors.Is(err, domain.ErrUnitNotFound) {
			handlers.RespondNotFound(w, msgUnitNotFound)
			return
		}
		h.logger.Error("GET /units/{id}/rates - Failed to list rates: unit_id=%d, error=%v", unitID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rates.FromDomainRateList(periods))
}
