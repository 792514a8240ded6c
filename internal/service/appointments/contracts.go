package appointments

import (
	"context"
	"time"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/infra/changefeed"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByPatient(ctx context.Context, filter domain.PatientAppointmentsFilter) ([]*domain.AppointmentWithPractice, error)
	GetByPracticeAndDay(ctx context.Context, practiceID int64, dayStart, dayEnd time.Time) ([]*domain.AppointmentWithPatient, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) (*domain.Appointment, error)
}

// PracticeRepository интерфейс репозитория практик (проверка владельца)
type PracticeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Practice, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует изменения в change feed
type EventPublisher interface {
	Publish(ctx context.Context, ev changefeed.Event) error
}

// Metrics бизнес-метрики отмены
type Metrics interface {
	IncAppointmentsCancelled(by string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
