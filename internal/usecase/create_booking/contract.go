package create_booking

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/integrations/notifier"
	"github.com/m04kA/SMC-RentalService/internal/service/availability"
)

// UnitRepository интерфейс репозитория юнитов
type UnitRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Unit, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// RateProvider источник снимка ценовых периодов юнита
type RateProvider interface {
	Snapshot(ctx context.Context, unitID int64) (*domain.RateSnapshot, error)
}

// AvailabilityChecker повторная проверка доступности внутри транзакции
type AvailabilityChecker interface {
	FindConflict(ctx context.Context, check availability.Check) (*domain.ConflictError, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Dispatcher уведомления после коммита
type Dispatcher interface {
	Dispatch(ctx context.Context, event notifier.Event)
}

// Metrics счётчики бронирований
type Metrics interface {
	BookingCreated(status string)
	BookingConflict()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
