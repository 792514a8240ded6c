package sign_out

import (
	"context"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
)

type AuthService interface {
	SignOut(ctx context.Context, principal *domain.Principal) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
