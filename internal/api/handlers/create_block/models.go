package create_block

import (
	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/service/blocks/models"
	createBlock "github.com/m04kA/SMC-RentalService/internal/usecase/create_block"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

// CreateBlockRequest HTTP request model
type CreateBlockRequest struct {
	StartDate          string `json:"startDate" validate:"required"`
	EndDate            string `json:"endDate" validate:"required"` // не включительно
	Reason             string `json:"reason" validate:"max=500"`
	LockSource         string `json:"lockSource" validate:"omitempty,oneof=SYSTEM OTA"`
	LockOwnerBookingID *int64 `json:"lockOwnerBookingId,omitempty" validate:"omitempty,gt=0"`
}

// CreateBlockResponse HTTP response model
type CreateBlockResponse struct {
	Block   *models.BlockResponse `json:"block"`
	Summary SummaryResponse       `json:"summary"`
}

// SummaryResponse сводка по блоку
type SummaryResponse struct {
	Nights int `json:"nights"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBlockRequest) ToUseCaseRequest(unitID int64) (*createBlock.Request, error) {
	start, err := dates.Parse(r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := dates.Parse(r.EndDate)
	if err != nil {
		return nil, err
	}

	return &createBlock.Request{
		UnitID:             unitID,
		StartDate:          start,
		EndDate:            end,
		Reason:             r.Reason,
		Source:             domain.LockSource(r.LockSource),
		LockOwnerBookingID: r.LockOwnerBookingID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBlock.Response) *CreateBlockResponse {
	return &CreateBlockResponse{
		Block:   models.FromDomainBlock(resp.Block),
		Summary: SummaryResponse{Nights: resp.Summary.Nights},
	}
}
