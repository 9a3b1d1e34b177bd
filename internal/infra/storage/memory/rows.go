package memory

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// Записи хранятся по значению, указатели копируются при записи и чтении,
// чтобы вызывающий код не мог изменить данные хранилища в обход транзакции.

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyUnit(u domain.Unit) *domain.Unit {
	u.Description = cloneString(u.Description)
	return &u
}

func copyBooking(b domain.Booking) *domain.Booking {
	b.GuestEmail = cloneString(b.GuestEmail)
	b.GuestPhone = cloneString(b.GuestPhone)
	b.Notes = cloneString(b.Notes)
	b.CancellationReason = cloneString(b.CancellationReason)
	b.CancelledAt = cloneTime(b.CancelledAt)
	return &b
}

func copyBlock(b domain.Block) *domain.Block {
	b.LockOwnerBookingID = cloneInt64(b.LockOwnerBookingID)
	return &b
}

func copyPeriod(p domain.RatePeriod) domain.RatePeriod {
	p.WeekdayPrice = cloneInt64(p.WeekdayPrice)
	p.WeekendPrice = cloneInt64(p.WeekendPrice)
	return p
}
