package changefeed

import (
	"time"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
)

// Ключи фильтрации событий
const (
	KeyPracticeID = "practice_id"
	KeyPatientID  = "patient_id"
	KeyUserID     = "user_id"
)

// AppointmentRecord строка appointments в событии
type AppointmentRecord struct {
	ID              int64     `json:"id"`
	PracticeID      int64     `json:"practice_id"`
	PatientID       int64     `json:"patient_id"`
	AppointmentDate time.Time `json:"appointment_date"`
	Status          string    `json:"status"`
	Notes           *string   `json:"notes,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AppointmentEvent событие изменения записи с ключами practice_id и patient_id
func AppointmentEvent(eventType EventType, a *domain.Appointment) (Event, error) {
	return NewEvent(domain.CollectionAppointments, eventType, a.ID,
		map[string]int64{KeyPracticeID: a.PracticeID, KeyPatientID: a.PatientID},
		AppointmentRecord{
			ID:              a.ID,
			PracticeID:      a.PracticeID,
			PatientID:       a.PatientID,
			AppointmentDate: a.AppointmentDate,
			Status:          string(a.Status),
			Notes:           a.Notes,
			UpdatedAt:       a.UpdatedAt,
		})
}

// WaitTimeRecord строка wait_times в событии
type WaitTimeRecord struct {
	PracticeID         int64     `json:"practice_id"`
	CurrentWaitMinutes int       `json:"current_wait_minutes"`
	Tier               string    `json:"tier"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// WaitTimeEvent событие изменения времени ожидания
func WaitTimeEvent(w *domain.WaitTime) (Event, error) {
	return NewEvent(domain.CollectionWaitTimes, EventUpdate, w.PracticeID,
		map[string]int64{KeyPracticeID: w.PracticeID},
		WaitTimeRecord{
			PracticeID:         w.PracticeID,
			CurrentWaitMinutes: w.CurrentWaitMinutes,
			Tier:               string(w.Tier()),
			UpdatedAt:          w.UpdatedAt,
		})
}

// PracticeRecord строка practices в событии (без часов работы)
type PracticeRecord struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Specialty string   `json:"specialty"`
	City      string   `json:"city"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// PracticeEvent событие изменения практики
func PracticeEvent(eventType EventType, p *domain.Practice) (Event, error) {
	return NewEvent(domain.CollectionPractices, eventType, p.ID,
		map[string]int64{KeyPracticeID: p.ID},
		PracticeRecord{
			ID:        p.ID,
			Name:      p.Name,
			Specialty: p.Specialty,
			City:      p.City,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
		})
}

// Изменения сессии
const (
	SessionSignedIn  = "signed_in"
	SessionSignedOut = "signed_out"
)

// SessionRecord строка sessions в событии
type SessionRecord struct {
	SessionID string `json:"session_id"`
	UserID    int64  `json:"user_id"`
	Change    string `json:"change"`
}

// SessionEvent событие входа или выхода, ключ user_id
func SessionEvent(userID int64, sessionID, change string) (Event, error) {
	eventType := EventInsert
	if change == SessionSignedOut {
		eventType = EventUpdate
	}
	return NewEvent(domain.CollectionSessions, eventType, userID,
		map[string]int64{KeyUserID: userID},
		SessionRecord{SessionID: sessionID, UserID: userID, Change: change})
}
