package list_blocks

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/domain"
)

const (
	msgInvalidUnitID = "некорректный ID объекта размещения"
	msgInvalidParams = "некорректные параметры запроса"
	msgUnitNotFound  = "объект размещения не найден"
)

type Handler struct {
	service BlockService
	logger  Logger
}

func NewHandler(service BlockService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/units/{unitId}/blocks?from=&to=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	unitID, err := handlers.PathID(r, "unitId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidUnitID)
		return
	}

	from, err := handlers.QueryDate(r, "from")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}
	to, err := handlers.QueryDate(r, "to")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.List(r.Context(), unitID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnitNotFound):
			handlers.RespondNotFound(w, msgUnitNotFound)
		case errors.Is(err, domain.ErrValidation):
			handlers.RespondBadRequest(w, msgInvalidParams)
		default:
			h.logger.Error("GET /units/{id}/blocks - Failed to list blocks: unit_id=%d, error=%v", unitID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
