package create_rate

import (
	"github.com/m04kA/SMC-RentalService/internal/service/rates"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

// CreateRateRequest HTTP request model
type CreateRateRequest struct {
	StartDate    string `json:"startDate" validate:"required"`
	EndDate      string `json:"endDate" validate:"required"`
	WeekdayPrice *int64 `json:"weekdayPrice,omitempty" validate:"omitempty,gte=0"`
	WeekendPrice *int64 `json:"weekendPrice,omitempty" validate:"omitempty,gte=0"`
	MinStay      int    `json:"minStay" validate:"gte=0"`
}

// ToServiceRequest конвертирует HTTP запрос в запрос сервиса
func (r *CreateRateRequest) ToServiceRequest(unitID int64) (*rates.CreateRequest, error) {
	start, err := dates.Parse(r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := dates.Parse(r.EndDate)
	if err != nil {
		return nil, err
	}

	return &rates.CreateRequest{
		UnitID:       unitID,
		StartDate:    start,
		EndDate:      end,
		WeekdayPrice: r.WeekdayPrice,
		WeekendPrice: r.WeekendPrice,
		MinStay:      r.MinStay,
	}, nil
}
