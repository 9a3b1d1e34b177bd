package create_block

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

// BookingRepository нужен для проверки бронирования-владельца блока
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// BlockRepository интерфейс репозитория блоков
type BlockRepository interface {
	Create(ctx context.Context, block *domain.Block) (*domain.Block, error)
}

// AvailabilityChecker проверка пересечений внутри транзакции
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

// Metrics счётчики блоков
type Metrics interface {
	BlockCreated(source string)
	BlockConflict()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
