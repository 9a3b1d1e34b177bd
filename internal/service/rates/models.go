package rates

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

// CreateRequest запрос на создание ценового периода
type CreateRequest struct {
	UnitID       int64
	StartDate    time.Time
	EndDate      time.Time
	WeekdayPrice *int64
	WeekendPrice *int64
	MinStay      int // 0 означает значение по умолчанию (1)
}

// RateResponse ценовой период в ответе API
type RateResponse struct {
	ID           int64     `json:"id"`
	UnitID       int64     `json:"unitId"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate"`
	WeekdayPrice *int64    `json:"weekdayPrice,omitempty"`
	WeekendPrice *int64    `json:"weekendPrice,omitempty"`
	MinStay      int       `json:"minStay"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RateListResponse периоды в порядке применения
type RateListResponse struct {
	Rates []RateResponse `json:"rates"`
}

func FromDomainRate(p *domain.RatePeriod) *RateResponse {
	if p == nil {
		return nil
	}
	return &RateResponse{
		ID:           p.ID,
		UnitID:       p.UnitID,
		StartDate:    dates.Format(p.StartDate),
		EndDate:      dates.Format(p.EndDate),
		WeekdayPrice: p.WeekdayPrice,
		WeekendPrice: p.WeekendPrice,
		MinStay:      p.EffectiveMinStay(),
		CreatedAt:    p.CreatedAt,
	}
}

func FromDomainRateList(periods []domain.RatePeriod) *RateListResponse {
	result := make([]RateResponse, 0, len(periods))
	for i := range periods {
		result = append(result, *FromDomainRate(&periods[i]))
	}
	return &RateListResponse{Rates: result}
}
