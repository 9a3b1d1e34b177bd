package release_block

import (
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
)

const msgInvalidBlockID = "некорректный ID блокировки"

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

// Handle DELETE /api/v1/blocks/{blockId}
// Повторное удаление не ошибка: всегда 204.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	blockID, err := handlers.PathID(r, "blockId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	if err := h.service.Release(r.Context(), blockID); err != nil {
		h.logger.Error("DELETE /blocks/{id} - Failed to release block: block_id=%d, error=%v", blockID, err)
		handlers.RespondInternalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
