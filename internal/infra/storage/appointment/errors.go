package appointment

import (
	"fmt"

	"github.com/m04kA/MediTime-BookingService/internal/infra/storage/storeerr"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("appointment.repository: %w", storeerr.ErrNotFound)

	// ErrSlotTaken возвращается при нарушении уникального индекса (practice_id, appointment_date)
	ErrSlotTaken = fmt.Errorf("appointment.repository: slot already taken: %w", storeerr.ErrConflict)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = fmt.Errorf("appointment.repository: %w", storeerr.ErrBuildQuery)

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = fmt.Errorf("appointment.repository: %w", storeerr.ErrExecQuery)

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = fmt.Errorf("appointment.repository: %w", storeerr.ErrScanRow)
)
