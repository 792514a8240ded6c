package session

import (
	"fmt"

	"github.com/m04kA/MediTime-BookingService/internal/infra/storage/storeerr"
)

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = fmt.Errorf("session.repository: %w", storeerr.ErrNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = fmt.Errorf("session.repository: %w", storeerr.ErrBuildQuery)

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = fmt.Errorf("session.repository: %w", storeerr.ErrExecQuery)

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = fmt.Errorf("session.repository: %w", storeerr.ErrScanRow)
)
