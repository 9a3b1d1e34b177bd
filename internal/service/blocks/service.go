package blocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	blockRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/block"
	unitRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/unit"
	"github.com/m04kA/SMC-RentalService/internal/integrations/notifier"
	"github.com/m04kA/SMC-RentalService/internal/service/blocks/models"
)

// Service снятие и просмотр блоков. Создание блока это отдельный use case.
type Service struct {
	blockRepo  BlockRepository
	unitRepo   UnitRepository
	txManager  TransactionManager
	dispatcher Dispatcher
	logger     Logger
}

// NewService создает новый экземпляр сервиса блоков
func NewService(
	blockRepo BlockRepository,
	unitRepo UnitRepository,
	txManager TransactionManager,
	dispatcher Dispatcher,
	logger Logger,
) *Service {
	return &Service{
		blockRepo:  blockRepo,
		unitRepo:   unitRepo,
		txManager:  txManager,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Release удаляет блок. Отсутствующий блок не ошибка.
func (s *Service) Release(ctx context.Context, blockID int64) error {
	s.logger.Info("Release: releasing block id=%d", blockID)

	var released *domain.Block

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		block, err := s.blockRepo.GetByID(txCtx, blockID)
		if err != nil {
			if errors.Is(err, blockRepo.ErrBlockNotFound) {
				return nil
			}
			return fmt.Errorf("%w: Release - repository error: %w", ErrInternal, err)
		}

		deleted, err := s.blockRepo.Delete(txCtx, blockID)
		if err != nil {
			return fmt.Errorf("%w: Release - repository error: %w", ErrInternal, err)
		}
		if deleted {
			released = block
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Release: failed to release block id=%d: %v", blockID, err)
		return err
	}

	if released == nil {
		s.logger.Info("Release: block id=%d already absent", blockID)
		return nil
	}

	s.logger.Info("Release: successfully released block id=%d, unit=%d", blockID, released.UnitID)
	s.dispatcher.Dispatch(ctx, notifier.NewBlockEvent(notifier.EventBlockReleased, released))
	return nil
}

// List возвращает блоки юнита, опционально пересекающиеся с [from, to)
func (s *Service) List(ctx context.Context, unitID int64, from, to *time.Time) (*models.BlockListResponse, error) {
	s.logger.Info("ListBlocks: fetching blocks for unit=%d", unitID)

	if from != nil && to != nil && !to.After(*from) {
		return nil, fmt.Errorf("%w: %w: 'to' must be after 'from'", domain.ErrValidation, domain.ErrInvalidRange)
	}

	if _, err := s.unitRepo.GetByID(ctx, unitID); err != nil {
		if errors.Is(err, unitRepo.ErrUnitNotFound) {
			s.logger.Warn("ListBlocks: unit id=%d not found", unitID)
			return nil, fmt.Errorf("%w: id=%d", domain.ErrUnitNotFound, unitID)
		}
		s.logger.Error("ListBlocks: failed to get unit id=%d: %v", unitID, err)
		return nil, fmt.Errorf("%w: ListBlocks - repository error: %v", ErrInternal, err)
	}

	blocks, err := s.blockRepo.GetByUnit(ctx, unitID, from, to)
	if err != nil {
		s.logger.Error("ListBlocks: repository error for unit=%d: %v", unitID, err)
		return nil, fmt.Errorf("%w: ListBlocks - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBlockList(blocks), nil
}
