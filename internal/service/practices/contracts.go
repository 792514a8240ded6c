package practices

import (
	"context"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/infra/changefeed"
)

// PracticeRepository интерфейс репозитория практик и времени ожидания
type PracticeRepository interface {
	Create(ctx context.Context, p *domain.Practice) (*domain.Practice, error)
	GetByID(ctx context.Context, id int64) (*domain.Practice, error)
	GetByOwner(ctx context.Context, ownerID int64) (*domain.Practice, error)
	List(ctx context.Context, filter domain.PracticeFilter) ([]*domain.Practice, error)
	Update(ctx context.Context, p *domain.Practice) (*domain.Practice, error)
	UpsertWaitTime(ctx context.Context, practiceID int64, minutes int) (*domain.WaitTime, error)
	GetWaitTime(ctx context.Context, practiceID int64) (*domain.WaitTime, error)
	ListWaitTimes(ctx context.Context, practiceIDs []int64) (map[int64]*domain.WaitTime, error)
}

// EventPublisher публикует изменения в change feed
type EventPublisher interface {
	Publish(ctx context.Context, ev changefeed.Event) error
}

// Metrics бизнес-метрики практик
type Metrics interface {
	IncWaitTimeUpdates()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
