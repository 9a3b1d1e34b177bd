package units

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	unitRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/unit"
	"github.com/m04kA/SMC-RentalService/internal/service/units/models"
)

// Service сервис юнитов
type Service struct {
	unitRepo UnitRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса юнитов
func NewService(unitRepo UnitRepository, logger Logger) *Service {
	return &Service{
		unitRepo: unitRepo,
		logger:   logger,
	}
}

// Create регистрирует юнит
func (s *Service) Create(ctx context.Context, req *models.CreateUnitRequest) (*models.UnitResponse, error) {
	s.logger.Info("CreateUnit: property=%d, name=%q, capacity=%d", req.PropertyID, req.Name, req.Capacity)

	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	case req.Capacity < 1:
		return nil, fmt.Errorf("%w: capacity must be at least 1", domain.ErrValidation)
	case req.BasePrice < 0:
		return nil, fmt.Errorf("%w: basePrice must not be negative", domain.ErrValidation)
	}

	created, err := s.unitRepo.Create(ctx, &domain.Unit{
		PropertyID:  req.PropertyID,
		Name:        name,
		Capacity:    req.Capacity,
		BasePrice:   req.BasePrice,
		Description: req.Description,
	})
	if err != nil {
		s.logger.Error("CreateUnit: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateUnit - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateUnit: successfully created unit id=%d", created.ID)
	return models.FromDomainUnit(created), nil
}

// GetByID получает юнит по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.UnitResponse, error) {
	unit, err := s.unitRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, unitRepo.ErrUnitNotFound) {
			s.logger.Warn("GetUnit: unit id=%d not found", id)
			return nil, fmt.Errorf("%w: id=%d", domain.ErrUnitNotFound, id)
		}
		s.logger.Error("GetUnit: repository error for unit id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetUnit - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainUnit(unit), nil
}
