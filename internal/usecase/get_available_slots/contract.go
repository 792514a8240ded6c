package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetBookedTimes время начала неотмененных записей практики за сутки
	GetBookedTimes(ctx context.Context, practiceID int64, dayStart, dayEnd time.Time) ([]time.Time, error)
}

// PracticeRepository интерфейс репозитория практик
type PracticeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Practice, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
