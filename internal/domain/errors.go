package domain

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

var (
	// ErrValidation некорректные входные данные (ошибка клиента)
	ErrValidation = errors.New("domain: validation error")

	// ErrInvalidRange диапазон дат нулевой или отрицательной длины
	ErrInvalidRange = dates.ErrInvalidRange

	// ErrMinimumStay проживание короче минимального срока
	ErrMinimumStay = errors.New("domain: minimum stay not met")

	// ErrConflict даты заняты другим бронированием или блоком
	ErrConflict = errors.New("domain: dates are no longer available")

	// ErrStoreUnavailable хранилище недоступно, транзакцию не удалось открыть
	ErrStoreUnavailable = errors.New("domain: store unavailable")

	// ErrUnitNotFound юнит не найден
	ErrUnitNotFound = errors.New("domain: unit not found")

	// ErrBookingNotFound бронирование не найдено
	ErrBookingNotFound = errors.New("domain: booking not found")
)

// MinimumStayError проживание короче, чем требует ценовой период
type MinimumStayError struct {
	Required int
	Nights   int
}

func (e *MinimumStayError) Error() string {
	return fmt.Sprintf("%v: %d nights requested, %d required", ErrMinimumStay, e.Nights, e.Required)
}

func (e *MinimumStayError) Unwrap() error {
	return ErrMinimumStay
}

// ConflictError пересечение с существующим бронированием или блоком.
// Если пересечение обнаружило хранилище (конфликт сериализации),
// BookingID и BlockID пустые.
type ConflictError struct {
	UnitID    int64
	BookingID *int64
	BlockID   *int64
	Cause     error
}

func (e *ConflictError) Error() string {
	switch {
	case e.BookingID != nil:
		return fmt.Sprintf("%v: unit=%d overlaps booking id=%d", ErrConflict, e.UnitID, *e.BookingID)
	case e.BlockID != nil:
		return fmt.Sprintf("%v: unit=%d overlaps block id=%d", ErrConflict, e.UnitID, *e.BlockID)
	case e.Cause != nil:
		return fmt.Sprintf("%v: unit=%d: %v", ErrConflict, e.UnitID, e.Cause)
	default:
		return fmt.Sprintf("%v: unit=%d", ErrConflict, e.UnitID)
	}
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
