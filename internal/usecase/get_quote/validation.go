package get_quote

import (
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

func validateRequest(req *Request, maxNights int) error {
	if req.UnitID <= 0 {
		return fmt.Errorf("%w: unit id must be positive", domain.ErrValidation)
	}
	return domain.ValidateStayLength(req.Checkin, req.Checkout, maxNights)
}
