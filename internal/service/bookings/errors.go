package bookings

import "errors"

var (
	// ErrCannotCancel возвращается, когда бронирование уже отменено
	ErrCannotCancel = errors.New("bookings: booking cannot be cancelled")

	// ErrCannotConfirm возвращается, когда бронирование не ждёт подтверждения
	ErrCannotConfirm = errors.New("bookings: only pending bookings can be confirmed")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
