package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError - кастомная ошибка приложения с HTTP кодом
type AppError struct {
	Code    int    // HTTP код
	Message string // Сообщение для пользователя
	Err     error  // Внутренняя ошибка
}

// Error реализует интерфейс error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap позволяет использовать errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// New создаёт новую ошибку приложения
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap оборачивает ошибку
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Предопределённые ошибки
//
// Kinds follow §7's error taxonomy: command faults (InsufficientBots,
// IllegalTransition) are rejected operator requests that leave state
// unchanged; InvalidOutcome/NoExecutor are programmer/engine-misuse
// faults that surface to the caller rather than being absorbed.

var (
	// Generic kinds, kept from the teacher for concerns that still apply
	// (validation failures, conflicting concurrent commands, unexpected
	// internal faults).
	ErrValidation = New(http.StatusBadRequest, "Validation failed", nil)
	ErrConflict   = New(http.StatusConflict, "Conflict", nil)
	ErrInternal   = New(http.StatusInternalServerError, "Internal server error", nil)

	// Tournament Manager / Series Manager command faults (§7, §4.5).
	ErrInsufficientBots = New(http.StatusConflict, "Tournament requires at least 2 bots", nil)
	ErrIllegalTransition = New(http.StatusConflict, "Command not allowed in current state", nil)
	ErrAlreadyRunning    = New(http.StatusConflict, "Tournament is already running", nil)

	// Engine/scorer misuse faults — these indicate a caller violated a
	// contract rather than a bot or publisher misbehaving.
	ErrInvalidOutcome  = New(http.StatusUnprocessableEntity, "Cannot score an Unknown outcome", nil)
	ErrNoExecutor      = New(http.StatusUnprocessableEntity, "No executor registered for game type", nil)
	ErrInvalidGameType = New(http.StatusBadRequest, "Invalid game type", nil)
)

// WithMessage создаёт новую ошибку с кастомным сообщением
func (e *AppError) WithMessage(msg string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: msg,
		Err:     e.Err,
	}
}

// WithError добавляет внутреннюю ошибку
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// IsAppError проверяет, является ли ошибка AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError извлекает AppError из ошибки
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// ToAppError преобразует ошибку в AppError
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr := GetAppError(err); appErr != nil {
		return appErr
	}

	return ErrInternal.WithError(err)
}

// IsNotFound проверяет, является ли ошибка типом "not found"
func IsNotFound(err error) bool {
	appErr := GetAppError(err)
	if appErr != nil {
		return appErr.Code == http.StatusNotFound
	}
	return false
}
