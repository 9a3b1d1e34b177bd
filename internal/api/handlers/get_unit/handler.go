package get_unit

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/domain"
)

const (
	msgInvalidUnitID = "некорректный ID объекта размещения"
	msgUnitNotFound  = "объект размещения не найден"
)

type Handler struct {
	service UnitService
	logger  Logger
}

func NewHandler(service UnitService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/units/{unitId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	unitID, err := handlers.PathID(r, "unitId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidUnitID)
		return
	}

	unit, err := h.service.GetByID(r.Context(), unitID)
	if err != nil {
		if errors.Is(err, domain.ErrUnitNotFound) {
			handlers.RespondNotFound(w, msgUnitNotFound)
			return
		}
		h.logger.Error("GET /units/{id} - Failed to get unit: unit_id=%d, error=%v", unitID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, unit)
}
