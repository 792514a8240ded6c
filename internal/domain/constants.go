package domain

import "time"

// Окно приема по умолчанию (используется, если у практики не заданы часы работы)
const (
	DefaultWindowStart         = "08:00"
	DefaultWindowEnd           = "17:00"
	DefaultSlotDurationMinutes = 30
	DefaultSlotDuration        = DefaultSlotDurationMinutes * time.Minute
)

// Пороги времени ожидания
const (
	ShortWaitMaxMinutes  = 15
	MediumWaitMaxMinutes = 30
)

// Business validation constants
const (
	MinWaitMinutes        = 0
	MaxWaitMinutes        = 600
	MaxNotesLength        = 500
	MaxNameLength         = 200
	MinPasswordLength     = 8
	MaxSearchQueryLength  = 100
	MinSlotDurationMinute = 5
)

// Time format constants
// TimeFormat используется и для генерации слотов, и для форматирования сохраненных записей
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Коллекции change feed
const (
	CollectionWaitTimes    = "wait_times"
	CollectionAppointments = "appointments"
	CollectionPractices    = "practices"
	CollectionSessions     = "sessions"
)

// Specialties специализации практик (фильтр в списке практик)
var Specialties = []string{
	"Allgemeinmedizin",
	"Augenheilkunde",
	"Chirurgie",
	"Dermatologie",
	"Gynäkologie",
	"HNO",
	"Innere Medizin",
	"Kardiologie",
	"Neurologie",
	"Orthopädie",
	"Pädiatrie",
	"Psychiatrie",
	"Urologie",
	"Zahnmedizin",
}

// IsKnownSpecialty проверяет, что специализация из списка
func IsKnownSpecialty(s string) bool {
	for _, known := range Specialties {
		if known == s {
			return true
		}
	}
	return false
}
