package rates

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	rateRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/rate"
	unitRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/unit"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

// Service ценовые периоды и снимки для резолвера цен
type Service struct {
	rateRepo RateRepository
	unitRepo UnitRepository
	cache    SnapshotCache
	maxRange int
	logger   Logger
}

// NewService создает новый экземпляр сервиса ценовых периодов
func NewService(rateRepo RateRepository, unitRepo UnitRepository, cache SnapshotCache, logger Logger) *Service {
	return &Service{
		rateRepo: rateRepo,
		unitRepo: unitRepo,
		cache:    cache,
		maxRange: domain.DefaultMaxStayNights,
		logger:   logger,
	}
}

// WithMaxRange задаёт предельную длину ценового периода в ночах
func (s *Service) WithMaxRange(nights int) *Service {
	s.maxRange = nights
	return s
}

// Snapshot возвращает неизменяемый снимок периодов юнита.
// Сначала читает кэш; ошибки кэша не мешают расчёту, снимок берётся из хранилища.
// Поколение читается до хранилища: снимок, прочитанный до Create/Delete, в кэш не попадёт.
func (s *Service) Snapshot(ctx context.Context, unitID int64) (*domain.RateSnapshot, error) {
	cached, ok, err := s.cache.Get(ctx, unitID)
	if err != nil {
		s.logger.Warn("Snapshot: cache read failed for unit=%d: %v", unitID, err)
	}
	if ok {
		return cached, nil
	}

	generation, genErr := s.cache.Generation(ctx, unitID)
	if genErr != nil {
		s.logger.Warn("Snapshot: cache generation read failed for unit=%d: %v", unitID, genErr)
	}

	periods, err := s.rateRepo.GetByUnit(ctx, unitID)
	if err != nil {
		s.logger.Error("Snapshot: failed to get rates for unit=%d: %v", unitID, err)
		return nil, fmt.Errorf("%w: failed to get rates: %w", ErrInternal, err)
	}

	snapshot := &domain.RateSnapshot{UnitID: unitID, Periods: periods}
	if genErr != nil {
		return snapshot, nil
	}

	stored, err := s.cache.Set(ctx, snapshot, generation)
	switch {
	case err != nil:
		s.logger.Warn("Snapshot: cache write failed for unit=%d: %v", unitID, err)
	case !stored:
		s.logger.Info("Snapshot: rates of unit=%d changed during read, snapshot not cached", unitID)
	}

	return snapshot, nil
}

// List возвращает периоды юнита в порядке применения
func (s *Service) List(ctx context.Context, unitID int64) ([]domain.RatePeriod, error) {
	if err := s.ensureUnit(ctx, unitID); err != nil {
		return nil, err
	}

	periods, err := s.rateRepo.GetByUnit(ctx, unitID)
	if err != nil {
		s.logger.Error("ListRates: failed to get rates for unit=%d: %v", unitID, err)
		return nil, fmt.Errorf("%w: failed to get rates: %w", ErrInternal, err)
	}
	return periods, nil
}

// Create добавляет ценовой период в конец списка юнита
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*domain.RatePeriod, error) {
	if err := validateCreate(req, s.maxRange); err != nil {
		s.logger.Warn("CreateRate: validation failed: %v", err)
		return nil, err
	}

	if err := s.ensureUnit(ctx, req.UnitID); err != nil {
		return nil, err
	}

	minStay := req.MinStay
	if minStay == 0 {
		minStay = domain.DefaultMinStay
	}

	created, err := s.rateRepo.Create(ctx, &domain.RatePeriod{
		UnitID:       req.UnitID,
		StartDate:    dates.Normalize(req.StartDate),
		EndDate:      dates.Normalize(req.EndDate),
		WeekdayPrice: req.WeekdayPrice,
		WeekendPrice: req.WeekendPrice,
		MinStay:      minStay,
	})
	if err != nil {
		s.logger.Error("CreateRate: failed to create rate for unit=%d: %v", req.UnitID, err)
		return nil, fmt.Errorf("%w: failed to create rate: %w", ErrInternal, err)
	}

	s.invalidate(ctx, req.UnitID)
	s.logger.Info("CreateRate: created rate id=%d for unit=%d (%s..%s)",
		created.ID, created.UnitID, dates.Format(created.StartDate), dates.Format(created.EndDate))

	return created, nil
}

// Delete удаляет ценовой период
func (s *Service) Delete(ctx context.Context, rateID int64) error {
	period, err := s.rateRepo.GetByID(ctx, rateID)
	if err != nil {
		if errors.Is(err, rateRepo.ErrRateNotFound) {
			return ErrRateNotFound
		}
		s.logger.Error("DeleteRate: failed to get rate id=%d: %v", rateID, err)
		return fmt.Errorf("%w: failed to get rate: %w", ErrInternal, err)
	}

	if err := s.rateRepo.Delete(ctx, rateID); err != nil {
		if errors.Is(err, rateRepo.ErrRateNotFound) {
			return ErrRateNotFound
		}
		s.logger.Error("DeleteRate: failed to delete rate id=%d: %v", rateID, err)
		return fmt.Errorf("%w: failed to delete rate: %w", ErrInternal, err)
	}

	s.invalidate(ctx, period.UnitID)
	s.logger.Info("DeleteRate: deleted rate id=%d for unit=%d", rateID, period.UnitID)
	return nil
}

func (s *Service) ensureUnit(ctx context.Context, unitID int64) error {
	if _, err := s.unitRepo.GetByID(ctx, unitID); err != nil {
		if errors.Is(err, unitRepo.ErrUnitNotFound) {
			return fmt.Errorf("%w: id=%d", domain.ErrUnitNotFound, unitID)
		}
		s.logger.Error("Rates: failed to get unit id=%d: %v", unitID, err)
		return fmt.Errorf("%w: failed to get unit: %w", ErrInternal, err)
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, unitID int64) {
	if err := s.cache.Invalidate(ctx, unitID); err != nil {
		s.logger.Error("Rates: cache invalidation failed for unit=%d: %v", unitID, err)
	}
}

func validateCreate(req *CreateRequest, maxNights int) error {
	if req.UnitID <= 0 {
		return fmt.Errorf("%w: unitId must be positive", domain.ErrValidation)
	}
	if err := domain.ValidateStayLength(req.StartDate, req.EndDate, maxNights); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if req.WeekdayPrice != nil && *req.WeekdayPrice < 0 {
		return fmt.Errorf("%w: weekdayPrice must not be negative", domain.ErrValidation)
	}
	if req.WeekendPrice != nil && *req.WeekendPrice < 0 {
		return fmt.Errorf("%w: weekendPrice must not be negative", domain.ErrValidation)
	}
	if req.MinStay < 0 || req.MinStay > domain.MaxMinStay {
		return fmt.Errorf("%w: minStay must be between 1 and %d", domain.ErrValidation, domain.MaxMinStay)
	}
	return nil
}
