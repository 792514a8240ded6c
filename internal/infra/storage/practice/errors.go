package practice

import (
	"fmt"

	"github.com/m04kA/MediTime-BookingService/internal/infra/storage/storeerr"
)

var (
	// ErrPracticeNotFound возвращается, когда практика не найдена
	ErrPracticeNotFound = fmt.Errorf("practice.repository: %w", storeerr.ErrNotFound)

	// ErrWaitTimeNotFound возвращается, когда время ожидания для практики не задано
	ErrWaitTimeNotFound = fmt.Errorf("practice.repository: wait time: %w", storeerr.ErrNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = fmt.Errorf("practice.repository: %w", storeerr.ErrBuildQuery)

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = fmt.Errorf("practice.repository: %w", storeerr.ErrExecQuery)

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = fmt.Errorf("practice.repository: %w", storeerr.ErrScanRow)
)
