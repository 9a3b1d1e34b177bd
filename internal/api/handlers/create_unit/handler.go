package create_unit

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/service/units/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidUnit        = "некорректные данные объекта размещения"
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

// Handle POST /api/v1/units
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUnitRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /units - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	unit, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			handlers.RespondBadRequest(w, msgInvalidUnit)
			return
		}
		h.logger.Error("POST /units - Failed to create unit: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /units - Unit created: unit_id=%d", unit.ID)
	handlers.RespondJSON(w, http.StatusCreated, unit)
}
