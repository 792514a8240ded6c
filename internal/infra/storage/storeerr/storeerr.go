// Package storeerr общий тип ошибки хранилища для всех репозиториев.
package storeerr

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL, которые обрабатываются отдельно
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
)

var (
	// ErrBuildQuery ошибка построения SQL запроса
	ErrBuildQuery = errors.New("storage: failed to build query")

	// ErrExecQuery ошибка выполнения SQL запроса
	ErrExecQuery = errors.New("storage: failed to execute query")

	// ErrScanRow ошибка сканирования результата
	ErrScanRow = errors.New("storage: failed to scan row")

	// ErrNotFound запись не найдена
	ErrNotFound = errors.New("storage: not found")

	// ErrConflict нарушение уникальности
	ErrConflict = errors.New("storage: conflict")
)

// StoreError ошибка select/insert/update с кодом провайдера
type StoreError struct {
	Kind error  // sentinel репозитория
	Op   string // имя операции репозитория
	Code string // pq.Error.Code, если есть
	Err  error
}

// Wrap создает StoreError, код берется из *pq.Error в цепочке err
func Wrap(kind error, op string, err error) *StoreError {
	return &StoreError{
		Kind: kind,
		Op:   op,
		Code: CodeOf(err),
		Err:  err,
	}
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("%v: %s", e.Kind, e.Op)
	if e.Code != "" {
		msg += fmt.Sprintf(" [%s]", e.Code)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *StoreError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// CodeOf возвращает код ошибки PostgreSQL или пустую строку
func CodeOf(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsUniqueViolation нарушение уникального индекса
func IsUniqueViolation(err error) bool {
	return CodeOf(err) == CodeUniqueViolation
}
