package create_block

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// Request модель запроса на создание блока
type Request struct {
	UnitID    int64
	StartDate time.Time // включительно
	EndDate   time.Time // не включительно
	Reason    string
	Source    domain.LockSource // пустой источник означает SYSTEM

	// LockOwnerBookingID блок живёт, пока живо это бронирование
	LockOwnerBookingID *int64
}

// Response созданный блок и сводка
type Response struct {
	Block   *domain.Block
	Summary Summary
}

// Summary сводка по блоку
type Summary struct {
	Nights int
}
