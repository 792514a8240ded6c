package profile

import (
	"fmt"

	"github.com/m04kA/MediTime-BookingService/internal/infra/storage/storeerr"
)

var (
	// ErrProfileNotFound возвращается, когда профиль не найден
	ErrProfileNotFound = fmt.Errorf("profile.repository: %w", storeerr.ErrNotFound)

	// ErrEmailTaken возвращается при регистрации на уже существующий email
	ErrEmailTaken = fmt.Errorf("profile.repository: email already registered: %w", storeerr.ErrConflict)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = fmt.Errorf("profile.repository: %w", storeerr.ErrBuildQuery)

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = fmt.Errorf("profile.repository: %w", storeerr.ErrExecQuery)

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = fmt.Errorf("profile.repository: %w", storeerr.ErrScanRow)
)
