package pricing

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
)

// Resolution цена и минимальный срок для одной ночи
type Resolution struct {
	Price    int64
	MinStay  int
	Weekend  bool
	PeriodID *int64 // nil, если ни один период не подошёл
}

// Resolve возвращает цену ночи date.
// Периоды сканируются по порядку, первый покрывающий дату выигрывает.
// Без подходящего периода применяется базовая цена юнита и minStay = 1.
func Resolve(unit *domain.Unit, snapshot *domain.RateSnapshot, date time.Time) Resolution {
	weekend := dates.IsWeekend(date)

	if snapshot != nil {
		for i := range snapshot.Periods {
			period := &snapshot.Periods[i]
			if !period.Covers(date) {
				continue
			}
			return Resolution{
				Price:    periodPrice(period, weekend, unit.BasePrice),
				MinStay:  period.EffectiveMinStay(),
				Weekend:  weekend,
				PeriodID: ptr.Ptr(period.ID),
			}
		}
	}

	return Resolution{
		Price:   unit.BasePrice,
		MinStay: domain.DefaultMinStay,
		Weekend: weekend,
	}
}

// periodPrice цепочка: нужная цена -> цена другого типа дня -> базовая цена
func periodPrice(period *domain.RatePeriod, weekend bool, base int64) int64 {
	primary, secondary := period.WeekdayPrice, period.WeekendPrice
	if weekend {
		primary, secondary = period.WeekendPrice, period.WeekdayPrice
	}

	if primary != nil {
		return *primary
	}
	if secondary != nil {
		return *secondary
	}
	return base
}

// BuildQuote считает стоимость проживания [checkin, checkout).
// minStayRequired равен максимуму minStay по всем подошедшим периодам, но не меньше 1.
func BuildQuote(unit *domain.Unit, snapshot *domain.RateSnapshot, checkin, checkout time.Time) (*domain.Quote, error) {
	nights, err := dates.Nights(checkin, checkout)
	if err != nil {
		return nil, err
	}

	quote := &domain.Quote{
		UnitID:          unit.ID,
		Checkin:         dates.Normalize(checkin),
		Checkout:        dates.Normalize(checkout),
		MinStayRequired: domain.DefaultMinStay,
	}

	for night := range nights {
		res := Resolve(unit, snapshot, night)

		quote.TotalPrice += res.Price
		quote.NightCount++
		if res.PeriodID != nil && res.MinStay > quote.MinStayRequired {
			quote.MinStayRequired = res.MinStay
		}

		quote.Nights = append(quote.Nights, domain.NightPrice{
			Date:     night,
			Price:    res.Price,
			Weekend:  res.Weekend,
			MinStay:  res.MinStay,
			PeriodID: res.PeriodID,
		})
	}

	return quote, nil
}

// CheckMinimumStay возвращает *domain.MinimumStayError, если проживание слишком короткое
func CheckMinimumStay(quote *domain.Quote) error {
	if quote.MinStayMet() {
		return nil
	}
	return &domain.MinimumStayError{Required: quote.MinStayRequired, Nights: quote.NightCount}
}
