package create_block

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	unitRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/unit"
	"github.com/m04kA/SMC-RentalService/internal/integrations/notifier"
	"github.com/m04kA/SMC-RentalService/internal/service/availability"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

// UseCase use case для создания ручного или OTA-блока
type UseCase struct {
	unitRepo    UnitRepository
	bookingRepo BookingRepository
	blockRepo   BlockRepository
	oracle      AvailabilityChecker
	txManager   TransactionManager
	policy      availability.Policy
	dispatcher  Dispatcher
	metrics     Metrics
	maxNights   int
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	unitRepo UnitRepository,
	bookingRepo BookingRepository,
	blockRepo BlockRepository,
	oracle AvailabilityChecker,
	txManager TransactionManager,
	policy availability.Policy,
	dispatcher Dispatcher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		unitRepo:    unitRepo,
		bookingRepo: bookingRepo,
		blockRepo:   blockRepo,
		oracle:      oracle,
		txManager:   txManager,
		policy:      policy,
		dispatcher:  dispatcher,
		metrics:     metrics,
		maxNights:   domain.DefaultMaxStayNights,
		logger:      logger,
	}
}

// WithMaxNights задаёт предельную длину блока в ночах
func (uc *UseCase) WithMaxNights(nights int) *UseCase {
	uc.maxNights = nights
	return uc
}

// Execute создаёт блок, если он не пересекается с подтверждёнными
// бронированиями (и PENDING, если так настроена политика) и другими блоками
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBlock: unit=%d, start=%s, end=%s, source=%s",
		req.UnitID, dates.Format(req.StartDate), dates.Format(req.EndDate), req.Source)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxNights); err != nil {
		uc.logger.Warn("CreateBlock: validation failed: %v", err)
		return nil, err
	}

	source := req.Source
	if source == "" {
		source = domain.LockSourceSystem
	}
	start, end := dates.Normalize(req.StartDate), dates.Normalize(req.EndDate)

	var result *domain.Block

	// 2. Проверка и вставка в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Блокируем юнит
		if _, err := uc.unitRepo.GetByID(txCtx, req.UnitID); err != nil {
			if errors.Is(err, unitRepo.ErrUnitNotFound) {
				return fmt.Errorf("%w: id=%d", domain.ErrUnitNotFound, req.UnitID)
			}
			return fmt.Errorf("%w: failed to lock unit: %w", ErrInternal, err)
		}

		// 2.2. Бронирование-владелец должно быть активным бронированием этого юнита
		if req.LockOwnerBookingID != nil {
			if err := uc.checkOwner(txCtx, req.UnitID, *req.LockOwnerBookingID); err != nil {
				return err
			}
		}

		// 2.3. Ищем пересечения
		check := uc.policy.ForBlock(req.UnitID, start, end, req.LockOwnerBookingID)
		conflict, err := uc.oracle.FindConflict(txCtx, check)
		if err != nil {
			return fmt.Errorf("%w: failed to check availability: %w", ErrInternal, err)
		}
		if conflict != nil {
			return conflict
		}

		// 2.4. Сохраняем блок
		created, err := uc.blockRepo.Create(txCtx, &domain.Block{
			UnitID:             req.UnitID,
			StartDate:          start,
			EndDate:            end,
			Reason:             strings.TrimSpace(req.Reason),
			Source:             source,
			LockOwnerBookingID: req.LockOwnerBookingID,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create block: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.handleTxError(req.UnitID, err)
	}

	uc.logger.Info("CreateBlock: successfully created block id=%d, unit=%d, source=%s",
		result.ID, result.UnitID, result.Source)
	uc.metrics.BlockCreated(string(result.Source))
	uc.dispatcher.Dispatch(ctx, notifier.NewBlockEvent(notifier.EventBlockCreated, result))

	return &Response{
		Block:   result,
		Summary: Summary{Nights: result.NightCount()},
	}, nil
}

func (uc *UseCase) checkOwner(ctx context.Context, unitID, bookingID int64) error {
	owner, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return fmt.Errorf("%w: %w: id=%d", domain.ErrValidation, ErrOwnerBookingNotFound, bookingID)
		}
		return fmt.Errorf("%w: failed to get owner booking: %w", ErrInternal, err)
	}
	if owner.UnitID != unitID || !owner.IsActive() {
		return fmt.Errorf("%w: %w: id=%d is not an active booking of unit=%d",
			domain.ErrValidation, ErrOwnerBookingNotFound, bookingID, unitID)
	}
	return nil
}

func (uc *UseCase) handleTxError(unitID int64, err error) error {
	classified := availability.ClassifyTxError(unitID, err)

	switch {
	case errors.Is(classified, domain.ErrConflict):
		uc.logger.Warn("CreateBlock: dates are not available: %v", classified)
		uc.metrics.BlockConflict()
	case errors.Is(classified, domain.ErrValidation), errors.Is(classified, domain.ErrUnitNotFound):
		uc.logger.Warn("CreateBlock: %v", classified)
	case errors.Is(classified, domain.ErrStoreUnavailable):
		uc.logger.Error("CreateBlock: store unavailable: %v", classified)
	default:
		uc.logger.Error("CreateBlock: transaction failed: %v", classified)
	}

	return classified
}
