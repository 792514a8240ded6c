package get_session

import (
	"context"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/service/auth/models"
)

type AuthService interface {
	CurrentUser(ctx context.Context, principal *domain.Principal) (*models.UserResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
