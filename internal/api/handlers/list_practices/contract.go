package list_practices

import (
	"context"

	"github.com/m04kA/MediTime-BookingService/internal/service/practices/models"
)

type PracticeService interface {
	List(ctx context.Context, req *models.ListRequest) (*models.PracticeListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
