package create_block

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/domain"
)

const (
	msgInvalidUnitID      = "некорректный ID объекта размещения"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange       = "дата окончания должна быть позже даты начала"
	msgInvalidBlock       = "некорректные данные блокировки"
	msgUnitNotFound       = "объект размещения не найден"
	msgConflict           = "даты пересекаются с подтверждённым бронированием или другой блокировкой"
)

type Handler struct {
	useCase CreateBlockUseCase
	logger  Logger
}

func NewHandler(useCase CreateBlockUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/units/{unitId}/blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	unitID, err := handlers.PathID(r, "unitId")
	if err != nil {
		h.logger.Warn("POST /units/{id}/blocks - Invalid unit ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUnitID)
		return
	}

	var req CreateBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /units/{id}/blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(unitID)
	if err != nil {
		h.logger.Warn("POST /units/{id}/blocks - Invalid date: unit_id=%d, error=%v", unitID, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRange):
			h.logger.Warn("POST /units/{id}/blocks - Invalid range: unit_id=%d, error=%v", unitID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /units/{id}/blocks - Validation failed: unit_id=%d, error=%v", unitID, err)
			handlers.RespondBadRequest(w, msgInvalidBlock)

		case errors.Is(err, domain.ErrUnitNotFound):
			h.logger.Warn("POST /units/{id}/blocks - Unit not found: unit_id=%d", unitID)
			handlers.RespondNotFound(w, msgUnitNotFound)

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("POST /units/{id}/blocks - Conflict: unit_id=%d, error=%v", unitID, err)
			handlers.RespondConflict(w, msgConflict, err)

		case errors.Is(err, domain.ErrStoreUnavailable):
			h.logger.Error("POST /units/{id}/blocks - Store unavailable: %v", err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /units/{id}/blocks - Failed to create block: unit_id=%d, error=%v", unitID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /units/{id}/blocks - Block created: block_id=%d, unit_id=%d, source=%s",
		result.Block.ID, unitID, result.Block.Source)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
