package models

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

// BlockResponse ответ с данными блока
type BlockResponse struct {
	ID                 int64     `json:"id"`
	UnitID             int64     `json:"unitId"`
	StartDate          string    `json:"startDate"`
	EndDate            string    `json:"endDate"` // не включительно
	Reason             string    `json:"reason"`
	LockSource         string    `json:"lockSource"`
	LockOwnerBookingID *int64    `json:"lockOwnerBookingId,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// BlockListResponse ответ со списком блоков
type BlockListResponse struct {
	Blocks []BlockResponse `json:"blocks"`
}

// FromDomainBlock конвертирует domain модель в DTO
func FromDomainBlock(b *domain.Block) *BlockResponse {
	if b == nil {
		return nil
	}
	return &BlockResponse{
		ID:                 b.ID,
		UnitID:             b.UnitID,
		StartDate:          dates.Format(b.StartDate),
		EndDate:            dates.Format(b.EndDate),
		Reason:             b.Reason,
		LockSource:         string(b.Source),
		LockOwnerBookingID: b.LockOwnerBookingID,
		CreatedAt:          b.CreatedAt,
	}
}

// FromDomainBlockList конвертирует список domain моделей в DTO
func FromDomainBlockList(blocks []*domain.Block) *BlockListResponse {
	resp := &BlockListResponse{Blocks: make([]BlockResponse, 0, len(blocks))}
	for _, b := range blocks {
		resp.Blocks = append(resp.Blocks, *FromDomainBlock(b))
	}
	return resp
}
