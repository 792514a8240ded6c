package create_appointment

import (
	"time"

	"github.com/m04kA/MediTime-BookingService/pkg/types"
)

// Request модель запроса на создание записи
// Дата и время приходят строками, чтобы отсутствие выбора было ValidationError
type Request struct {
	PatientID  int64   // ID пациента (из сессии)
	PracticeID int64   // ID практики
	Date       string  // YYYY-MM-DD
	Time       string  // HH:MM, один из сгенерированных слотов
	Notes      *string // Комментарий пациента
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	PracticeID      int64
	PatientID       int64
	AppointmentDate time.Time
	Date            string
	StartTime       types.TimeString
	Status          string
	Notes           *string
	CreatedAt       time.Time
}
