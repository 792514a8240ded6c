package models

import (
	"time"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
)

// Request модели

// GetPatientAppointmentsRequest запрос списка записей пациента
type GetPatientAppointmentsRequest struct {
	PatientID int64  `json:"patientId"`
	Scope     string `json:"scope"` // upcoming (по умолчанию) или past
}

// CancelRequest запрос отмены записи пациентом
type CancelRequest struct {
	PatientID int64 `json:"patientId"`
}

// UpdateStatusRequest запрос смены статуса владельцем практики
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// GetPracticeAppointmentsRequest запрос записей практики на дату
type GetPracticeAppointmentsRequest struct {
	UserID     int64     `json:"userId"`
	PracticeID int64     `json:"practiceId"`
	Date       time.Time `json:"date"`
}

// Response модели

// AppointmentResponse данные записи
type AppointmentResponse struct {
	ID              int64     `json:"id"`
	PracticeID      int64     `json:"practiceId"`
	PatientID       int64     `json:"patientId"`
	AppointmentDate time.Time `json:"appointmentDate"`
	Date            string    `json:"date"` // "2026-03-02"
	Time            string    `json:"time"` // "09:00"
	Status          string    `json:"status"`
	StatusLabel     string    `json:"statusLabel"`
	Notes           *string   `json:"notes,omitempty"`
	CanBeCancelled  bool      `json:"canBeCancelled"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// PracticeSummary данные практики в записи пациента
type PracticeSummary struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
}

// PatientAppointmentResponse запись пациента с данными практики
type PatientAppointmentResponse struct {
	AppointmentResponse
	Practice PracticeSummary `json:"practice"`
}

// PatientAppointmentListResponse список записей пациента
type PatientAppointmentListResponse struct {
	Scope        string                        `json:"scope"`
	Appointments []*PatientAppointmentResponse `json:"appointments"`
}

// PatientSummary данные пациента в записи практики
type PatientSummary struct {
	FullName string  `json:"fullName"`
	Phone    *string `json:"phone,omitempty"`
}

// PracticeAppointmentResponse запись практики с данными пациента
type PracticeAppointmentResponse struct {
	AppointmentResponse
	Patient PatientSummary `json:"patient"`
}

// PracticeAppointmentListResponse список записей практики за день
type PracticeAppointmentListResponse struct {
	PracticeID   int64                          `json:"practiceId"`
	Date         string                         `json:"date"`
	Appointments []*PracticeAppointmentResponse `json:"appointments"`
}

// Converters

// FromDomainAppointment конвертирует запись, дата и время в зоне loc
func FromDomainAppointment(a *domain.Appointment, loc *time.Location) *AppointmentResponse {
	local := a.AppointmentDate
	if loc != nil {
		local = local.In(loc)
	}
	return &AppointmentResponse{
		ID:              a.ID,
		PracticeID:      a.PracticeID,
		PatientID:       a.PatientID,
		AppointmentDate: a.AppointmentDate,
		Date:            local.Format(domain.DateFormat),
		Time:            local.Format(domain.TimeFormat),
		Status:          string(a.Status),
		StatusLabel:     a.Status.Label(),
		Notes:           a.Notes,
		CanBeCancelled:  a.CanBeCancelled(),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// FromDomainPatientAppointments конвертирует список записей пациента
func FromDomainPatientAppointments(scope domain.AppointmentScope, items []*domain.AppointmentWithPractice, loc *time.Location) *PatientAppointmentListResponse {
	result := make([]*PatientAppointmentResponse, 0, len(items))
	for _, item := range items {
		result = append(result, &PatientAppointmentResponse{
			AppointmentResponse: *FromDomainAppointment(&item.Appointment, loc),
			Practice: PracticeSummary{
				Name:    item.PracticeName,
				Address: item.PracticeAddress,
				City:    item.PracticeCity,
				Phone:   item.PracticePhone,
			},
		})
	}
	return &PatientAppointmentListResponse{Scope: string(scope), Appointments: result}
}

// FromDomainPracticeAppointments конвертирует список записей практики
func FromDomainPracticeAppointments(practiceID int64, date time.Time, items []*domain.AppointmentWithPatient, loc *time.Location) *PracticeAppointmentListResponse {
	result := make([]*PracticeAppointmentResponse, 0, len(items))
	for _, item := range items {
		result = append(result, &PracticeAppointmentResponse{
			AppointmentResponse: *FromDomainAppointment(&item.Appointment, loc),
			Patient: PatientSummary{
				FullName: item.PatientName,
				Phone:    item.PatientPhone,
			},
		})
	}
	return &PracticeAppointmentListResponse{
		PracticeID:   practiceID,
		Date:         date.Format(domain.DateFormat),
		Appointments: result,
	}
}

// ToDomainScope конвертирует scope, пустая строка - upcoming
func ToDomainScope(s string) (domain.AppointmentScope, bool) {
	switch domain.AppointmentScope(s) {
	case "", domain.ScopeUpcoming:
		return domain.ScopeUpcoming, true
	case domain.ScopePast:
		return domain.ScopePast, true
	default:
		return "", false
	}
}
