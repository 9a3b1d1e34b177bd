package list_blocks

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/service/blocks/models"
)

type BlockService interface {
	List(ctx context.Context, unitID int64, from, to *time.Time) (*models.BlockListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
