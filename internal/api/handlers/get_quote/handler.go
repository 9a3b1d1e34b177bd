package get_quote

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/domain"
	getQuote "github.com/m04kA/SMC-RentalService/internal/usecase/get_quote"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

const (
	msgInvalidUnitID = "некорректный ID объекта размещения"
	msgInvalidDate   = "параметры checkin и checkout обязательны, формат YYYY-MM-DD"
	msgInvalidRange  = "дата выезда должна быть позже даты заезда"
	msgUnitNotFound  = "объект размещения не найден"
)

type Handler struct {
	useCase GetQuoteUseCase
	logger  Logger
}

func NewHandler(useCase GetQuoteUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/units/{unitId}/quote?checkin=YYYY-MM-DD&checkout=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	unitID, err := handlers.PathID(r, "unitId")
	if err != nil {
		h.logger.Warn("GET /units/{id}/quote - Invalid unit ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUnitID)
		return
	}

	checkin, err := dates.Parse(r.URL.Query().Get("checkin"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	checkout, err := dates.Parse(r.URL.Query().Get("checkout"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getQuote.Request{
		UnitID:   unitID,
		Checkin:  checkin,
		Checkout: checkout,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRange):
			handlers.RespondBadRequest(w, msgInvalidRange)
		case errors.Is(err, domain.ErrValidation):
			handlers.RespondBadRequest(w, msgInvalidUnitID)
		case errors.Is(err, domain.ErrUnitNotFound):
			handlers.RespondNotFound(w, msgUnitNotFound)
		default:
			h.logger.Error("GET /units/{id}/quote - Failed to build quote: unit_id=%d, error=%v", unitID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
