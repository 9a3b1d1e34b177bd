package get_quote

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// UnitRepository интерфейс репозитория юнитов
type UnitRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Unit, error)
}

// RateProvider источник снимка ценовых периодов юнита
type RateProvider interface {
	Snapshot(ctx context.Context, unitID int64) (*domain.RateSnapshot, error)
}

// AvailabilityChecker быстрая проверка доступности без транзакции
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, unitID int64, checkin, checkout time.Time) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
