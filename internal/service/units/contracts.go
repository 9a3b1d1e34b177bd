package units

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// UnitRepository интерфейс репозитория юнитов
type UnitRepository interface {
	Create(ctx context.Context, unit *domain.Unit) (*domain.Unit, error)
	GetByID(ctx context.Context, id int64) (*domain.Unit, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
