package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/service/units/models"
)

type UnitService interface {
	GetByID(ctx context.Context, id int64) (*models.UnitResponse, error)
}

type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, unitID int64, checkin, checkout time.Time) (bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
