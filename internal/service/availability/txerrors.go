package availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/txmanager"
)

// ClassifyTxError приводит ошибку транзакции к таксономии домена.
// Конфликт сериализации означает, что параллельный писатель занял даты:
// это *domain.ConflictError, а не повод для повторной попытки.
// Невозможность открыть транзакцию это отказ хранилища, а не конфликт.
// Остальные ошибки возвращаются без изменений.
func ClassifyTxError(unitID int64, err error) error {
	if err == nil {
		return nil
	}

	var conflict *domain.ConflictError
	switch {
	case errors.As(err, &conflict):
		return err
	case txmanager.IsSerializationFailure(err):
		return &domain.ConflictError{UnitID: unitID, Cause: err}
	case errors.Is(err, txmanager.ErrBeginTx):
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	default:
		return err
	}
}
