package delete_rate

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/service/rates"
)

const (
	msgInvalidRateID = "некорректный ID ценового периода"
	msgRateNotFound  = "ценовой период не найден"
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

// Handle DELETE /api/v1/rates/{rateId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	rateID, err := handlers.PathID(r, "rateId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidRateID)
		return
	}

	if err := h.service.Delete(r.Context(), rateID); err != nil {
		if errors.Is(err, rates.ErrRateNotFound) {
			handlers.RespondNotFound(w, msgRateNotFound)
			return
		}
		h.logger.Error("DELETE /rates/{id} - Failed to delete rate: rate_id=%d, error=%v", rateID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /rates/{id} - Rate deleted: rate_id=%d", rateID)
	w.WriteHeader(http.StatusNoContent)
}
