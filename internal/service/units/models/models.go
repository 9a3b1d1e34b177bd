package models

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// CreateUnitRequest запрос на создание юнита
type CreateUnitRequest struct {
	PropertyID  int64   `json:"propertyId" validate:"gte=0"`
	Name        string  `json:"name" validate:"required,max=200"`
	Capacity    int     `json:"capacity" validate:"required,gte=1"`
	BasePrice   int64   `json:"basePrice" validate:"gte=0"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// UnitResponse ответ с данными юнита
type UnitResponse struct {
	ID          int64     `json:"id"`
	PropertyID  int64     `json:"propertyId"`
	Name        string    `json:"name"`
	Capacity    int       `json:"capacity"`
	BasePrice   int64     `json:"basePrice"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromDomainUnit конвертирует domain модель в DTO
func FromDomainUnit(u *domain.Unit) *UnitResponse {
	if u == nil {
		return nil
	}
	return &UnitResponse{
		ID:          u.ID,
		PropertyID:  u.PropertyID,
		Name:        u.Name,
		Capacity:    u.Capacity,
		BasePrice:   u.BasePrice,
		Description: u.Description,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
