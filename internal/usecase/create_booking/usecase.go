package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	unitRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/unit"
	"github.com/m04kA/SMC-RentalService/internal/integrations/notifier"
	"github.com/m04kA/SMC-RentalService/internal/service/availability"
	"github.com/m04kA/SMC-RentalService/internal/service/pricing"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

// UseCase use case для создания бронирования
type UseCase struct {
	unitRepo      UnitRepository
	bookingRepo   BookingRepository
	rates         RateProvider
	oracle        AvailabilityChecker
	txManager     TransactionManager
	dispatcher    Dispatcher
	metrics       Metrics
	defaultStatus domain.BookingStatus
	maxStay       int
	logger        Logger
}

// NewUseCase создает новый экземпляр use case.
// defaultStatus статус бронирования, если запрос не требует ручного подтверждения.
func NewUseCase(
	unitRepo UnitRepository,
	bookingRepo BookingRepository,
	rates RateProvider,
	oracle AvailabilityChecker,
	txManager TransactionManager,
	dispatcher Dispatcher,
	metrics Metrics,
	defaultStatus domain.BookingStatus,
	logger Logger,
) *UseCase {
	if defaultStatus != domain.StatusPending {
		defaultStatus = domain.StatusConfirmed
	}
	return &UseCase{
		unitRepo:      unitRepo,
		bookingRepo:   bookingRepo,
		rates:         rates,
		oracle:        oracle,
		txManager:     txManager,
		dispatcher:    dispatcher,
		metrics:       metrics,
		defaultStatus: defaultStatus,
		maxStay:       domain.DefaultMaxStayNights,
		logger:        logger,
	}
}

// WithMaxStay задаёт предельную длину проживания в ночах
func (uc *UseCase) WithMaxStay(nights int) *UseCase {
	uc.maxStay = nights
	return uc
}

// Execute выполняет use case создания бронирования.
// Проверка доступности и вставка выполняются в одной сериализуемой транзакции:
// из двух параллельных запросов на пересекающиеся даты успешен ровно один,
// второй получает *domain.ConflictError.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: unit=%d, checkin=%s, checkout=%s, adults=%d, children=%d",
		req.UnitID, dates.Format(req.Checkin), dates.Format(req.Checkout), req.Adults, req.Children)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxStay); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}
	checkin, checkout := dates.Normalize(req.Checkin), dates.Normalize(req.Checkout)

	// 2. Получаем юнит и проверяем вместимость
	unit, err := uc.getUnit(ctx, req.UnitID)
	if err != nil {
		return nil, err
	}
	if err := validateCapacity(unit, req.Adults, req.Children); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	// 3. Считаем стоимость и минимальный срок
	snapshot, err := uc.rates.Snapshot(ctx, unit.ID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get rates for unit=%d: %v", unit.ID, err)
		return nil, fmt.Errorf("%w: failed to get rates: %v", ErrInternal, err)
	}

	quote, err := pricing.BuildQuote(unit, snapshot, checkin, checkout)
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to build quote: %v", err)
		return nil, err
	}
	if err := pricing.CheckMinimumStay(quote); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	status := uc.defaultStatus
	if req.RequireConfirmation {
		status = domain.StatusPending
	}

	var result *domain.Booking

	// 4. Повторная проверка доступности и вставка в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Блокируем юнит, чтобы писатели одного юнита шли по очереди.
		// Вместимость проверяется ещё раз по заблокированной строке.
		locked, err := uc.unitRepo.GetByID(txCtx, unit.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to lock unit: %w", ErrInternal, err)
		}
		if err := validateCapacity(locked, req.Adults, req.Children); err != nil {
			return err
		}

		// 4.2. Ищем пересечения с активными бронированиями и блоками
		conflict, err := uc.oracle.FindConflict(txCtx, availability.ForBooking(unit.ID, checkin, checkout))
		if err != nil {
			return fmt.Errorf("%w: failed to check availability: %w", ErrInternal, err)
		}
		if conflict != nil {
			return conflict
		}

		// 4.3. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			UnitID:     unit.ID,
			GuestName:  strings.TrimSpace(req.GuestName),
			GuestEmail: req.GuestEmail,
			GuestPhone: req.GuestPhone,
			Adults:     req.Adults,
			Children:   req.Children,
			Checkin:    checkin,
			Checkout:   checkout,
			Total:      quote.TotalPrice,
			Status:     status,
			Notes:      req.Notes,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.handleTxError(unit.ID, err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, unit=%d, status=%s, total=%d",
		result.ID, result.UnitID, result.Status, result.Total)
	uc.metrics.BookingCreated(string(result.Status))

	// 5. Уведомление после коммита, его сбой не влияет на бронирование
	uc.dispatcher.Dispatch(ctx, notifier.NewBookingEvent(notifier.EventBookingCreated, result))

	return &Response{Booking: result, Quote: quote}, nil
}

func (uc *UseCase) getUnit(ctx context.Context, unitID int64) (*domain.Unit, error) {
	unit, err := uc.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		if errors.Is(err, unitRepo.ErrUnitNotFound) {
			uc.logger.Warn("CreateBooking: unit id=%d not found", unitID)
			return nil, fmt.Errorf("%w: id=%d", domain.ErrUnitNotFound, unitID)
		}
		uc.logger.Error("CreateBooking: failed to get unit id=%d: %v", unitID, err)
		return nil, fmt.Errorf("%w: failed to get unit: %v", ErrInternal, err)
	}
	return unit, nil
}

// handleTxError конфликт сериализации превращается в ConflictError,
// сбой открытия транзакции в ErrStoreUnavailable
func (uc *UseCase) handleTxError(unitID int64, err error) error {
	classified := availability.ClassifyTxError(unitID, err)

	switch {
	case errors.Is(classified, domain.ErrConflict):
		uc.logger.Warn("CreateBooking: dates are no longer available: %v", classified)
		uc.metrics.BookingConflict()
	case errors.Is(classified, domain.ErrStoreUnavailable):
		uc.logger.Error("CreateBooking: store unavailable: %v", classified)
	case errors.Is(classified, domain.ErrValidation):
		uc.logger.Warn("CreateBooking: %v", classified)
	default:
		uc.logger.Error("CreateBooking: transaction failed: %v", classified)
	}

	return classified
}
