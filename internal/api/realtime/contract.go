package realtime

import (
	"context"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/infra/changefeed"
	getAvailableSlots "github.com/m04kA/MediTime-BookingService/internal/usecase/get_available_slots"
)

// Feed подписка на change feed
type Feed interface {
	Subscribe(collection string, filter changefeed.Filter, handler changefeed.Handler) changefeed.Subscription
	Unsubscribe(sub changefeed.Subscription)
}

// Authenticator проверяет токен клиента
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
	ObserveSession(userID int64, callback func(change, sessionID string)) func()
}

// SlotsUseCase расчет свободных слотов
type SlotsUseCase interface {
	Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error)
}

// PracticeRepository проверка владельца для закрытых топиков
type PracticeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Practice, error)
}

// Metrics число подключенных клиентов
type Metrics interface {
	AddRealtimeClients(delta float64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
