package domain

import (
	"errors"
	"fmt"
)

// ErrValidation общий sentinel для ошибок валидации, errors.Is(err, ErrValidation)
var ErrValidation = errors.New("validation error")

// ValidationError не выбрана дата/время/пользователь или поле некорректно
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError создает ошибку валидации поля
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", ErrValidation, e.Message)
	}
	return fmt.Sprintf("%v: %s: %s", ErrValidation, e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
