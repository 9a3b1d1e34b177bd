package rates

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// RateRepository интерфейс репозитория ценовых периодов
type RateRepository interface {
	Create(ctx context.Context, period *domain.RatePeriod) (*domain.RatePeriod, error)
	GetByID(ctx context.Context, id int64) (*domain.RatePeriod, error)
	GetByUnit(ctx context.Context, unitID int64) ([]domain.RatePeriod, error)
	Delete(ctx context.Context, id int64) error
}

// UnitRepository интерфейс репозитория юнитов
type UnitRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Unit, error)
}

// SnapshotCache кэш снимков ценовых периодов
type SnapshotCache interface {
	Get(ctx context.Context, unitID int64) (*domain.RateSnapshot, bool, error)
	Generation(ctx context.Context, unitID int64) (int64, error)
	Set(ctx context.Context, snapshot *domain.RateSnapshot, generation int64) (bool, error)
	Invalidate(ctx context.Context, unitID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
