package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/infra/changefeed"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	// GetBookedTimes внутри транзакции блокирует строки дня (FOR UPDATE)
	GetBookedTimes(ctx context.Context, practiceID int64, dayStart, dayEnd time.Time) ([]time.Time, error)
}

// PracticeRepository интерфейс репозитория практик
type PracticeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Practice, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует изменения в change feed
type EventPublisher interface {
	Publish(ctx context.Context, ev changefeed.Event) error
}

// Metrics бизнес-метрики записи
type Metrics interface {
	IncAppointmentsBooked()
	IncBookingConflicts()
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
