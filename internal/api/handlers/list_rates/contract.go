package list_rates

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

type RateService interface {
	List(ctx context.Context, unitID int64) ([]domain.RatePeriod, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
