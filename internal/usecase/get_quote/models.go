package get_quote

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// Request модель запроса расчёта стоимости
type Request struct {
	UnitID   int64
	Checkin  time.Time
	Checkout time.Time
}

// Response расчёт и результат предварительной проверки доступности.
// Available верно только на момент запроса.
type Response struct {
	Quote     *domain.Quote
	Available bool
}
