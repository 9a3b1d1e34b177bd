package availability

import "errors"

var (
	// ErrInternal возвращается при ошибках чтения бронирований или блоков
	ErrInternal = errors.New("availability: internal error")
)
