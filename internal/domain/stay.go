package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

// ValidateStayLength проверяет диапазон [start, end) и ограничивает его длину.
// maxNights <= 0 снимает ограничение.
func ValidateStayLength(start, end time.Time, maxNights int) error {
	nights, err := dates.NightCount(start, end)
	if err != nil {
		return err
	}
	if maxNights > 0 && nights > maxNights {
		return fmt.Errorf("%w: %d nights exceed maximum of %d", ErrValidation, nights, maxNights)
	}
	return nil
}
