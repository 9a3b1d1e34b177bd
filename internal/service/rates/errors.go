package rates

import "errors"

var (
	// ErrRateNotFound возвращается, когда ценовой период не найден
	ErrRateNotFound = errors.New("rates: rate period not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("rates: internal error")
)
