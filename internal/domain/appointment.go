package domain

import (
	"errors"
	"time"
)

// ErrInvalidStatus некорректный статус записи
var ErrInvalidStatus = errors.New("invalid appointment status")

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment запись пациента в практику
type Appointment struct {
	ID              int64
	PracticeID      int64
	PatientID       int64
	AppointmentDate time.Time // момент начала приема (timestamptz)
	Status          AppointmentStatus
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsActive returns true if the appointment still occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// CanBeCancelled returns true if the appointment can be cancelled by the patient
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsUpcoming returns true if the appointment is in the future and not cancelled
func (a *Appointment) IsUpcoming(now time.Time) bool {
	return a.IsActive() && !a.AppointmentDate.Before(now)
}

// AppointmentWithPatient запись с данными пациента (для списка практики)
type AppointmentWithPatient struct {
	Appointment
	PatientName  string
	PatientPhone *string
}

// AppointmentWithPractice запись с данными практики (для списка пациента)
type AppointmentWithPractice struct {
	Appointment
	PracticeName    string
	PracticeAddress string
	PracticeCity    string
	PracticePhone   string
}

// AppointmentScope фильтр списка записей пациента
type AppointmentScope string

const (
	ScopeUpcoming AppointmentScope = "upcoming"
	ScopePast     AppointmentScope = "past"
)

// PatientAppointmentsFilter фильтр для получения записей пациента
type PatientAppointmentsFilter struct {
	PatientID int64
	Scope     AppointmentScope
	Now       time.Time
}

// AllStatuses допустимые статусы
var AllStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCancelled,
	StatusCompleted,
}

// ParseAppointmentStatus конвертирует строку в статус с валидацией
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(s)
	for _, valid := range AllStatuses {
		if status == valid {
			return status, nil
		}
	}
	return "", ErrInvalidStatus
}

// StatusLabel подпись статуса для интерфейса
func (s AppointmentStatus) Label() string {
	switch s {
	case StatusPending:
		return "Ausstehend"
	case StatusConfirmed:
		return "Bestätigt"
	case StatusCancelled:
		return "Storniert"
	case StatusCompleted:
		return "Abgeschlossen"
	default:
		return string(s)
	}
}

// StartOfDay начало суток даты в ее location
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// EndOfDay начало следующих суток (граница не включается)
func EndOfDay(date time.Time) time.Time {
	return StartOfDay(date).AddDate(0, 0, 1)
}
