package txmanager

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrBeginTx транзакцию не удалось открыть (хранилище недоступно)
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrSerialization хранилище обнаружило конфликт с параллельной транзакцией
	ErrSerialization = errors.New("txmanager: serialization failure")

	// ErrCommit ошибка фиксации транзакции, не связанная с конфликтом
	ErrCommit = errors.New("txmanager: failed to commit transaction")
)

// SQLSTATE коды, которые означают конфликт параллельных писателей
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeExclusionViolation   = "23P01"
)

// IsSerializationFailure проверяет, что ошибка вызвана конфликтом транзакций.
// Нарушение EXCLUDE-ограничения тоже считается конфликтом: это пересечение дат,
// которое пропустила проверка внутри транзакции.
func IsSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSerialization) {
		return true
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case codeSerializationFailure, codeDeadlockDetected, codeExclusionViolation:
		return true
	default:
		return false
	}
}
