package get_quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	unitRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/unit"
	"github.com/m04kA/SMC-RentalService/internal/service/pricing"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

// UseCase use case расчёта стоимости проживания
type UseCase struct {
	unitRepo UnitRepository
	rates    RateProvider
	oracle   AvailabilityChecker
	maxStay  int
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(unitRepo UnitRepository, rates RateProvider, oracle AvailabilityChecker, logger Logger) *UseCase {
	return &UseCase{
		unitRepo: unitRepo,
		rates:    rates,
		oracle:   oracle,
		maxStay:  domain.DefaultMaxStayNights,
		logger:   logger,
	}
}

// WithMaxStay задаёт предельную длину проживания в ночах
func (uc *UseCase) WithMaxStay(nights int) *UseCase {
	uc.maxStay = nights
	return uc
}

// Execute считает стоимость по ночам и проверяет доступность.
// Короткое проживание не ошибка: расчёт возвращается с MinStayMet() == false.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetQuote: unit=%d, checkin=%s, checkout=%s",
		req.UnitID, dates.Format(req.Checkin), dates.Format(req.Checkout))

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxStay); err != nil {
		uc.logger.Warn("GetQuote: validation failed: %v", err)
		return nil, err
	}
	checkin, checkout := dates.Normalize(req.Checkin), dates.Normalize(req.Checkout)

	// 2. Получаем юнит
	unit, err := uc.unitRepo.GetByID(ctx, req.UnitID)
	if err != nil {
		if errors.Is(err, unitRepo.ErrUnitNotFound) {
			uc.logger.Warn("GetQuote: unit id=%d not found", req.UnitID)
			return nil, fmt.Errorf("%w: id=%d", domain.ErrUnitNotFound, req.UnitID)
		}
		uc.logger.Error("GetQuote: failed to get unit id=%d: %v", req.UnitID, err)
		return nil, fmt.Errorf("%w: failed to get unit: %v", ErrInternal, err)
	}

	// 3. Снимок ценовых периодов и расчёт
	snapshot, err := uc.rates.Snapshot(ctx, unit.ID)
	if err != nil {
		uc.logger.Error("GetQuote: failed to get rates for unit=%d: %v", unit.ID, err)
		return nil, fmt.Errorf("%w: failed to get rates: %v", ErrInternal, err)
	}

	quote, err := pricing.BuildQuote(unit, snapshot, checkin, checkout)
	if err != nil {
		uc.logger.Warn("GetQuote: failed to build quote: %v", err)
		return nil, err
	}

	// 4. Предварительная проверка доступности
	available, err := uc.oracle.IsAvailable(ctx, unit.ID, checkin, checkout)
	if err != nil {
		uc.logger.Error("GetQuote: failed to check availability for unit=%d: %v", unit.ID, err)
		return nil, fmt.Errorf("%w: failed to check availability: %v", ErrInternal, err)
	}

	uc.logger.Info("GetQuote: unit=%d, nights=%d, total=%d, minStay=%d, available=%t",
		unit.ID, quote.NightCount, quote.TotalPrice, quote.MinStayRequired, available)

	return &Response{Quote: quote, Available: available}, nil
}
