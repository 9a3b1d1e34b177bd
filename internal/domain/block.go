package domain

import (
	"time"

	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

// LockSource происхождение блокировки
type LockSource string

const (
	LockSourceSystem LockSource = "SYSTEM" // ручная блокировка оператором
	LockSourceOTA    LockSource = "OTA"    // удержание внешнего канала продаж
)

// IsValid проверяет, что источник известен
func (s LockSource) IsValid() bool {
	return s == LockSourceSystem || s == LockSourceOTA
}

// Block период недоступности юнита [StartDate, EndDate).
// LockOwnerBookingID связывает блок с жизненным циклом бронирования:
// при отмене бронирования блок удаляется.
type Block struct {
	ID                 int64
	UnitID             int64
	StartDate          time.Time
	EndDate            time.Time
	Reason             string
	Source             LockSource
	LockOwnerBookingID *int64
	CreatedAt          time.Time
}

// Overlaps пересекается ли блок с диапазоном [start, end)
func (b *Block) Overlaps(start, end time.Time) bool {
	return dates.RangesOverlap(b.StartDate, b.EndDate, start, end)
}

// IsOwnedBy принадлежит ли блок бронированию
func (b *Block) IsOwnedBy(bookingID int64) bool {
	return b.LockOwnerBookingID != nil && *b.LockOwnerBookingID == bookingID
}

// NightCount количество ночей, закрытых блоком
func (b *Block) NightCount() int {
	n, err := dates.NightCount(b.StartDate, b.EndDate)
	if err != nil {
		return 0
	}
	return n
}
