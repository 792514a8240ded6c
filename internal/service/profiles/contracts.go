package profiles

import (
	"context"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
)

// ProfileRepository интерфейс репозитория профилей
type ProfileRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Profile, error)
	Update(ctx context.Context, id int64, fullName string, phone *string) (*domain.Profile, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
