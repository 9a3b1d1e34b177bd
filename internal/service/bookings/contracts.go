package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/integrations/notifier"
	"github.com/m04kA/SMC-RentalService/internal/service/availability"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUnit(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) error
}

// BlockRepository нужен для снятия блоков, принадлежащих бронированию
type BlockRepository interface {
	DeleteByOwner(ctx context.Context, bookingID int64) ([]*domain.Block, error)
}

// UnitRepository интерфейс репозитория юнитов
type UnitRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Unit, error)
}

// AvailabilityChecker проверка пересечений при подтверждении
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
	BookingCancelled()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
