package check_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

const (
	msgInvalidUnitID = "некорректный ID объекта размещения"
	msgInvalidDate   = "параметры checkin и checkout обязательны, формат YYYY-MM-DD"
	msgInvalidRange  = "дата выезда должна быть позже даты заезда"
	msgUnitNotFound  = "объект размещения не найден"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	UnitID    int64  `json:"unitId"`
	Checkin   string `json:"checkin"`
	Checkout  string `json:"checkout"`
	Available bool   `json:"available"`
}

type Handler struct {
	units  UnitService
	oracle AvailabilityChecker
	logger Logger
}

func NewHandler(units UnitService, oracle AvailabilityChecker, logger Logger) *Handler {
	return &Handler{
		units:  units,
		oracle: oracle,
		logger: logger,
	}
}

// Handle GET /api/v1/units/{unitId}/availability?checkin=YYYY-MM-DD&checkout=YYYY-MM-DD
// Результат верен только на момент запроса.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	unitID, err := handlers.PathID(r, "unitId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidUnitID)
		return
	}

	checkin, errIn := dates.Parse(r.URL.Query().Get("checkin"))
	checkout, errOut := dates.Parse(r.URL.Query().Get("checkout"))
	if errIn != nil || errOut != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	if err := dates.ValidateRange(checkin, checkout); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}

	if _, err := h.units.GetByID(r.Context(), unitID); err != nil {
		if errors.Is(err, domain.ErrUnitNotFound) {
			handlers.RespondNotFound(w, msgUnitNotFound)
			return
		}
		h.logger.Error("GET /units/{id}/availability - Failed to get unit: unit_id=%d, error=%v", unitID, err)
		handlers.RespondInternalError(w)
		return
	}

	available, err := h.oracle.IsAvailable(r.Context(), unitID, checkin, checkout)
	if err != nil {
		h.logger.Error("GET /units/{id}/availability - Failed to check availability: unit_id=%d, error=%v", unitID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, AvailabilityResponse{
		UnitID:    unitID,
		Checkin:   dates.Format(checkin),
		Checkout:  dates.Format(checkout),
		Available: available,
	})
}
