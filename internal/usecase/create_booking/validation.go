package create_booking

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// validateRequest проверяет структуру запроса, не обращаясь к хранилищу
func validateRequest(req *Request, maxNights int) error {
	if req.UnitID <= 0 {
		return fmt.Errorf("%w: unit id must be positive", domain.ErrValidation)
	}

	name := strings.TrimSpace(req.GuestName)
	if name == "" {
		return fmt.Errorf("%w: guest name is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(name) > domain.MaxGuestNameLength {
		return fmt.Errorf("%w: guest name exceeds %d characters", domain.ErrValidation, domain.MaxGuestNameLength)
	}

	if req.Adults < domain.MinAdults {
		return fmt.Errorf("%w: at least %d adult required", domain.ErrValidation, domain.MinAdults)
	}
	if req.Children < 0 {
		return fmt.Errorf("%w: children must not be negative", domain.ErrValidation)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", domain.ErrValidation, domain.MaxNotesLength)
	}

	return domain.ValidateStayLength(req.Checkin, req.Checkout, maxNights)
}

// validateCapacity проверяет, что гости помещаются в юнит
func validateCapacity(unit *domain.Unit, adults, children int) error {
	if !unit.Fits(adults, children) {
		return fmt.Errorf("%w: %d guests exceed unit capacity %d", domain.ErrValidation, adults+children, unit.Capacity)
	}
	return nil
}
