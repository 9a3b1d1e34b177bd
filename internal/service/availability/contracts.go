package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// BookingRepository бронирования юнита, пересекающие диапазон.
// Внутри транзакции PostgreSQL-реализация блокирует найденные строки (FOR UPDATE).
type BookingRepository interface {
	GetOverlapping(ctx context.Context, unitID int64, start, end time.Time, statuses []domain.BookingStatus) ([]*domain.Booking, error)
}

// BlockRepository блоки юнита, пересекающие диапазон
type BlockRepository interface {
	GetOverlapping(ctx context.Context, unitID int64, start, end time.Time) ([]*domain.Block, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
