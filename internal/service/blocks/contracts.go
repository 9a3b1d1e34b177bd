package blocks

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/integrations/notifier"
)

// BlockRepository интерфейс репозитория блоков
type BlockRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Block, error)
	GetByUnit(ctx context.Context, unitID int64, from, to *time.Time) ([]*domain.Block, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// UnitRepository интерфейс репозитория юнитов
type UnitRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Unit, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Dispatcher уведомления после коммита
type Dispatcher interface {
	Dispatch(ctx context.Context, event notifier.Event)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
