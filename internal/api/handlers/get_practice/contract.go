package get_practice

import (
	"context"

	"github.com/m04kA/MediTime-BookingService/internal/service/practices/models"
)

type PracticeService interface {
	Get(ctx context.Context, id int64) (*models.PracticeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
