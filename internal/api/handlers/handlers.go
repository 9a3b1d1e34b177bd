// Package handlers общие помощники HTTP-обработчиков: ответы JSON,
// разбор тела и параметров пути, валидация запросов.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

const maxBodyBytes = 1 << 20

const (
	msgInternalError      = "внутренняя ошибка сервера"
	msgServiceUnavailable = "хранилище временно недоступно, повторите запрос позже"
)

var (
	// ErrEmptyBody тело запроса отсутствует
	ErrEmptyBody = errors.New("handlers: empty request body")

	// ErrInvalidPathParam параметр пути не является положительным числом
	ErrInvalidPathParam = errors.New("handlers: invalid path parameter")

	// ErrInvalidQueryParam некорректный параметр строки запроса
	ErrInvalidQueryParam = errors.New("handlers: invalid query parameter")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConflictResponse тело ответа 409: ссылка на бронирование или блок, с которым пересеклись даты
type ConflictResponse struct {
	Error                string `json:"error"`
	ConflictingBookingID *int64 `json:"conflictingBookingId,omitempty"`
	ConflictingBlockID   *int64 `json:"conflictingBlockId,omitempty"`
}

// RespondJSON пишет ответ в JSON
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondError пишет ошибку с указанным статусом
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

func RespondServiceUnavailable(w http.ResponseWriter) {
	RespondError(w, http.StatusServiceUnavailable, msgServiceUnavailable)
}

// RespondConflict пишет 409. Если err содержит *domain.ConflictError,
// в ответ попадает ссылка на конфликтующую запись.
func RespondConflict(w http.ResponseWriter, message string, err error) {
	resp := ConflictResponse{Error: message}

	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		resp.ConflictingBookingID = conflict.BookingID
		resp.ConflictingBlockID = conflict.BlockID
	}

	RespondJSON(w, http.StatusConflict, resp)
}

// DecodeJSON читает тело запроса в v и проверяет теги validate
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}

	return Validate(v)
}

// Validate проверяет структуру по тегам validate
func Validate(v interface{}) error {
	return validate.Struct(v)
}

// PathID читает положительный int64 из параметра пути
func PathID(r *http.Request, name string) (int64, error) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s is missing", ErrInvalidPathParam, name)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidPathParam, name, raw)
	}
	return id, nil
}

// QueryDate читает необязательную дату YYYY-MM-DD из строки запроса
func QueryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	d, err := dates.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidQueryParam, name, raw)
	}
	return &d, nil
}

// QueryBool читает необязательный флаг из строки запроса
func QueryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrInvalidQueryParam, name, raw)
	}
	return v, nil
}
