package sign_in

import (
	"context"

	"github.com/m04kA/MediTime-BookingService/internal/service/auth/models"
)

type AuthService interface {
	SignIn(ctx context.Context, req *models.SignInRequest) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
