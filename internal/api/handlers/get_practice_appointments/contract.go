package get_practice_appointments

import (
	"context"

	"github.com/m04kA/MediTime-BookingService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetPracticeAppointments(ctx context.Context, req *models.GetPracticeAppointmentsRequest) (*models.PracticeAppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
