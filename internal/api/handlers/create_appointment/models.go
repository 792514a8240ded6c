package create_appointment

import (
	"time"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	createAppointment "github.com/m04kA/MediTime-BookingService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	PracticeID int64   `json:"practiceId"`
	Date       string  `json:"date"` // "2026-03-02"
	Time       string  `json:"time"` // "09:00"
	Notes      *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64     `json:"id"`
	PracticeID      int64     `json:"practiceId"`
	PatientID       int64     `json:"patientId"`
	AppointmentDate time.Time `json:"appointmentDate"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Status          string    `json:"status"`
	StatusLabel     string    `json:"statusLabel"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case, пациент берется из сессии
func (r *CreateAppointmentRequest) ToUseCaseRequest(patientID int64) *createAppointment.Request {
	return &createAppointment.Request{
		PatientID:  patientID,
		PracticeID: r.PracticeID,
		Date:       r.Date,
		Time:       r.Time,
		Notes:      r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	status := domain.AppointmentStatus(resp.Status)
	return &AppointmentResponse{
		ID:              resp.ID,
		PracticeID:      resp.PracticeID,
		PatientID:       resp.PatientID,
		AppointmentDate: resp.AppointmentDate,
		Date:            resp.Date,
		Time:            resp.StartTime.String(),
		Status:          resp.Status,
		StatusLabel:     status.Label(),
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt,
	}
}
