package update_wait_time

import (
	"context"

	"github.com/m04kA/MediTime-BookingService/internal/service/practices/models"
)

type PracticeService interface {
	UpdateWaitTime(ctx context.Context, id int64, req *models.UpdateWaitTimeRequest) (*models.WaitTimeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
