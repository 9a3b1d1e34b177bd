package bookings

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	unitRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/unit"
	"github.com/m04kA/SMC-RentalService/internal/integrations/notifier"
	"github.com/m04kA/SMC-RentalService/internal/service/availability"
	"github.com/m04kA/SMC-RentalService/internal/service/bookings/models"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

// Service сервис для работы с бронированиями после их создания
type Service struct {
	bookingRepo  BookingRepository
	blockRepo    BlockRepository
	unitRepo     UnitRepository
	oracle       AvailabilityChecker
	txManager    TransactionManager
	dispatcher   Dispatcher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	blockRepo BlockRepository,
	unitRepo UnitRepository,
	oracle AvailabilityChecker,
	txManager TransactionManager,
	dispatcher Dispatcher,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		blockRepo:    blockRepo,
		unitRepo:     unitRepo,
		oracle:       oracle,
		txManager:    txManager,
		dispatcher:   dispatcher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// ListByUnit получает бронирования юнита, по умолчанию только активные
func (s *Service) ListByUnit(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("ListByUnit: fetching bookings for unit=%d", req.UnitID)
	if req.From != nil {
		logMsg += ", from=" + dates.Format(*req.From)
	}
	if req.To != nil {
		logMsg += ", to=" + dates.Format(*req.To)
	}
	if req.IncludeCancelled {
		logMsg += ", includeCancelled=true"
	}
	s.logger.Info(logMsg)

	if req.From != nil && req.To != nil && !req.To.After(*req.From) {
		return nil, fmt.Errorf("%w: %w: 'to' must be after 'from'", domain.ErrValidation, domain.ErrInvalidRange)
	}

	if _, err := s.unitRepo.GetByID(ctx, req.UnitID); err != nil {
		if errors.Is(err, unitRepo.ErrUnitNotFound) {
			s.logger.Warn("ListByUnit: unit id=%d not found", req.UnitID)
			return nil, fmt.Errorf("%w: id=%d", domain.ErrUnitNotFound, req.UnitID)
		}
		s.logger.Error("ListByUnit: failed to get unit id=%d: %v", req.UnitID, err)
		return nil, fmt.Errorf("%w: ListByUnit - repository error: %v", ErrInternal, err)
	}

	bookings, err := s.bookingRepo.GetByUnit(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("ListByUnit: repository error for unit=%d: %v", req.UnitID, err)
		return nil, fmt.Errorf("%w: ListByUnit - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByUnit: successfully fetched %d bookings for unit=%d", len(bookings), req.UnitID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование.
// В той же транзакции снимаются все блоки, владельцем которых оно является.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d", bookingID)

	if req.Reason != nil && utf8.RuneCountInString(*req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", domain.ErrValidation, domain.MaxCancellationReasonLength)
	}

	var (
		unitID   int64
		result   *domain.Booking
		released []*domain.Block
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Получаем бронирование с блокировкой строки
		booking, err := s.getBooking(txCtx, "Cancel", bookingID)
		if err != nil {
			return err
		}
		unitID = booking.UnitID

		// 2. Проверяем, можно ли отменить бронирование
		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return fmt.Errorf("%w: %w: status=%s", domain.ErrValidation, ErrCannotCancel, booking.Status)
		}

		// 3. Отменяем
		if err := s.bookingRepo.Cancel(txCtx, bookingID, req.Reason, s.timeProvider.Now()); err != nil {
			return fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
		}

		// 4. Снимаем блоки, принадлежащие бронированию
		released, err = s.blockRepo.DeleteByOwner(txCtx, bookingID)
		if err != nil {
			return fmt.Errorf("%w: Cancel - failed to release blocks: %w", ErrInternal, err)
		}

		result, err = s.getBooking(txCtx, "Cancel", bookingID)
		return err
	})

	if err != nil {
		return nil, s.handleTxError("Cancel", unitID, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d, released %d blocks", bookingID, len(released))
	s.metrics.BookingCancelled()

	s.dispatcher.Dispatch(ctx, notifier.NewBookingEvent(notifier.EventBookingCancelled, result))
	for _, block := range released {
		s.dispatcher.Dispatch(ctx, notifier.NewBlockEvent(notifier.EventBlockReleased, block))
	}

	return models.FromDomainBooking(result), nil
}

// Confirm переводит PENDING бронирование в CONFIRMED.
// Повторно проверяет, что даты не заняты другим подтверждённым бронированием или чужим блоком.
func (s *Service) Confirm(ctx context.Context, bookingID int64) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: confirming booking id=%d", bookingID)

	var (
		unitID int64
		result *domain.Booking
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, "Confirm", bookingID)
		if err != nil {
			return err
		}
		unitID = booking.UnitID

		if !booking.CanBeConfirmed() {
			s.logger.Warn("Confirm: booking id=%d cannot be confirmed, status=%s", bookingID, booking.Status)
			return fmt.Errorf("%w: %w: status=%s", domain.ErrValidation, ErrCannotConfirm, booking.Status)
		}

		conflict, err := s.oracle.FindConflict(txCtx, availability.Check{
			UnitID:               booking.UnitID,
			Start:                booking.Checkin,
			End:                  booking.Checkout,
			Statuses:             []domain.BookingStatus{domain.StatusConfirmed},
			ExcludeBookingID:     &booking.ID,
			ExcludeBlocksOwnedBy: &booking.ID,
		})
		if err != nil {
			return fmt.Errorf("%w: Confirm - failed to check availability: %w", ErrInternal, err)
		}
		if conflict != nil {
			return conflict
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, domain.StatusConfirmed); err != nil {
			return fmt.Errorf("%w: Confirm - repository error: %w", ErrInternal, err)
		}

		result, err = s.getBooking(txCtx, "Confirm", bookingID)
		return err
	})

	if err != nil {
		return nil, s.handleTxError("Confirm", unitID, err)
	}

	s.logger.Info("Confirm: successfully confirmed booking id=%d", bookingID)
	s.dispatcher.Dispatch(ctx, notifier.NewBookingEvent(notifier.EventBookingConfirmed, result))

	return models.FromDomainBooking(result), nil
}

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, fmt.Errorf("%w: id=%d", domain.ErrBookingNotFound, id)
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) handleTxError(op string, unitID int64, err error) error {
	classified := availability.ClassifyTxError(unitID, err)

	switch {
	case errors.Is(classified, domain.ErrValidation), errors.Is(classified, domain.ErrBookingNotFound):
		// уже залогировано
	case errors.Is(classified, domain.ErrConflict):
		s.logger.Warn("%s: %v", op, classified)
	case errors.Is(classified, domain.ErrStoreUnavailable):
		s.logger.Error("%s: store unavailable: %v", op, classified)
	default:
		s.logger.Error("%s: transaction failed: %v", op, classified)
	}

	return classified
}
