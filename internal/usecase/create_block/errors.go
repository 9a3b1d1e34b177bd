package create_block

import "errors"

var (
	// ErrOwnerBookingNotFound бронирование-владелец не найдено на этом юните
	ErrOwnerBookingNotFound = errors.New("create_block: lock owner booking not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_block: internal error")
)
