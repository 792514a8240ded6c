package get_my_practice

import (
	"context"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/service/practices/models"
)

type PracticeService interface {
	GetOrCreateMine(ctx context.Context, userID int64, role domain.Role) (*models.PracticeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
