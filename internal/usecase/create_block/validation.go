package create_block

import (
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

func validateRequest(req *Request, maxNights int) error {
	if req.UnitID <= 0 {
		return fmt.Errorf("%w: unit id must be positive", domain.ErrValidation)
	}

	if err := domain.ValidateStayLength(req.StartDate, req.EndDate, maxNights); err != nil {
		return err
	}

	if req.Source != "" && !req.Source.IsValid() {
		return fmt.Errorf("%w: unknown lock source %q", domain.ErrValidation, req.Source)
	}

	if utf8.RuneCountInString(req.Reason) > domain.MaxBlockReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", domain.ErrValidation, domain.MaxBlockReasonLength)
	}

	if req.LockOwnerBookingID != nil && *req.LockOwnerBookingID <= 0 {
		return fmt.Errorf("%w: lock owner booking id must be positive", domain.ErrValidation)
	}

	return nil
}
