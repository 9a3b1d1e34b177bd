package domain

import "github.com/m04kA/SMC-RentalService/pkg/dates"

// Default values
const (
	DefaultMinStay = 1

	// DefaultMaxStayNights длина самого длинного диапазона дат (год, включая високосный)
	DefaultMaxStayNights = 366
)

// Business validation constants
const (
	MinAdults                   = 1
	MaxGuestNameLength          = 200
	MaxNotesLength              = 500
	MaxBlockReasonLength        = 500
	MaxCancellationReasonLength = 500
	MaxMinStay                  = 365
)

// DateFormat формат календарных дат (YYYY-MM-DD)
const DateFormat = dates.Layout
