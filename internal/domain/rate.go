package domain

import "time"

// RatePeriod ценовое правило юнита на [StartDate, EndDate).
// Цены опциональны: отсутствующая цена берётся по цепочке
// выходной -> будний -> базовая цена юнита (и симметрично для будних дней).
type RatePeriod struct {
	ID           int64
	UnitID       int64
	StartDate    time.Time
	EndDate      time.Time
	WeekdayPrice *int64
	WeekendPrice *int64
	MinStay      int
	CreatedAt    time.Time
}

// Covers попадает ли ночь date в период
func (p *RatePeriod) Covers(date time.Time) bool {
	return !date.Before(p.StartDate) && date.Before(p.EndDate)
}

// EffectiveMinStay минимальный срок проживания периода (не меньше 1)
func (p *RatePeriod) EffectiveMinStay() int {
	if p.MinStay < DefaultMinStay {
		return DefaultMinStay
	}
	return p.MinStay
}

// RateSnapshot неизменяемый снимок ценовых правил юнита.
// Периоды упорядочены так, как их сканирует резолвер: первый подходящий выигрывает.
type RateSnapshot struct {
	UnitID  int64
	Periods []RatePeriod
}

// Quote расчёт стоимости проживания (не сохраняется)
type Quote struct {
	UnitID          int64
	Checkin         time.Time
	Checkout        time.Time
	TotalPrice      int64
	NightCount      int
	MinStayRequired int
	Nights          []NightPrice
}

// MinStayMet выполняется ли требование минимального срока
func (q *Quote) MinStayMet() bool {
	return q.NightCount >= q.MinStayRequired
}

// NightPrice цена одной ночи
type NightPrice struct {
	Date     time.Time
	Price    int64
	Weekend  bool
	MinStay  int
	PeriodID *int64 // nil, если применена базовая цена юнита
}
