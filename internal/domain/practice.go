package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/MediTime-BookingService/pkg/types"
)

// ErrInvalidOpeningHours некорректные часы работы
var ErrInvalidOpeningHours = errors.New("invalid opening hours")

// Названия по умолчанию для новой практики
const (
	DefaultPracticeName      = "Neue Praxis"
	DefaultPracticeSpecialty = "Allgemeinmedizin"
)

// Practice медицинская практика
type Practice struct {
	ID           int64
	OwnerID      int64
	Name         string
	Specialty    string
	Description  *string
	Address      string
	City         string
	PostalCode   string
	Phone        string
	Email        *string
	Latitude     *float64
	Longitude    *float64
	OpeningHours OpeningHours
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsOwnedBy returns true if the practice belongs to the user
func (p *Practice) IsOwnedBy(userID int64) bool {
	return p.OwnerID == userID
}

// HasLocation returns true if the practice can be placed on the map
func (p *Practice) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// PracticeFilter фильтр списка практик
type PracticeFilter struct {
	Specialty *string
	Search    *string // по названию, городу и специализации без учета регистра
}

// DayHours часы работы одного дня недели
type DayHours struct {
	Open       types.TimeString  `json:"open"`
	Close      types.TimeString  `json:"close"`
	BreakStart *types.TimeString `json:"break_start,omitempty"`
	BreakEnd   *types.TimeString `json:"break_end,omitempty"`
}

// Validate проверяет формат и порядок времени
func (d DayHours) Validate() error {
	if err := d.Open.Validate(); err != nil {
		return fmt.Errorf("%w: open: %v", ErrInvalidOpeningHours, err)
	}
	if err := d.Close.Validate(); err != nil {
		return fmt.Errorf("%w: close: %v", ErrInvalidOpeningHours, err)
	}
	if !d.Open.IsBefore(d.Close) {
		return fmt.Errorf("%w: open %s must be before close %s", ErrInvalidOpeningHours, d.Open, d.Close)
	}

	if d.BreakStart == nil && d.BreakEnd == nil {
		return nil
	}
	if d.BreakStart == nil || d.BreakEnd == nil {
		return fmt.Errorf("%w: break_start and break_end must be set together", ErrInvalidOpeningHours)
	}
	if err := d.BreakStart.Validate(); err != nil {
		return fmt.Errorf("%w: break_start: %v", ErrInvalidOpeningHours, err)
	}
	if err := d.BreakEnd.Validate(); err != nil {
		return fmt.Errorf("%w: break_end: %v", ErrInvalidOpeningHours, err)
	}
	if !d.BreakStart.IsBefore(*d.BreakEnd) {
		return fmt.Errorf("%w: break_start must be before break_end", ErrInvalidOpeningHours)
	}
	if d.BreakStart.IsBefore(d.Open) || d.BreakEnd.IsAfter(d.Close) {
		return fmt.Errorf("%w: break must be inside opening hours", ErrInvalidOpeningHours)
	}
	return nil
}

// OpeningHours часы работы по дням недели (monday..sunday), отсутствующий день - выходной
type OpeningHours map[string]DayHours

// Weekdays ключи дней недели
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// WeekdayKey ключ дня недели для даты
func WeekdayKey(date time.Time) string {
	return strings.ToLower(date.Weekday().String())
}

// ForDate возвращает часы работы для дня недели даты
func (h OpeningHours) ForDate(date time.Time) (DayHours, bool) {
	day, ok := h[WeekdayKey(date)]
	return day, ok
}

// Validate проверяет ключи и каждый день
func (h OpeningHours) Validate() error {
	for key, day := range h {
		if !isWeekdayKey(key) {
			return fmt.Errorf("%w: unknown weekday %q", ErrInvalidOpeningHours, key)
		}
		if err := day.Validate(); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func isWeekdayKey(key string) bool {
	for _, wd := range Weekdays {
		if wd == key {
			return true
		}
	}
	return false
}

// Value реализует driver.Valuer (jsonb)
func (h OpeningHours) Value() (driver.Value, error) {
	if h == nil {
		return nil, nil
	}
	data, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Scan реализует sql.Scanner (jsonb)
func (h *OpeningHours) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*h = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidOpeningHours, src)
	}

	if len(data) == 0 {
		*h = nil
		return nil
	}

	var parsed OpeningHours
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOpeningHours, err)
	}
	*h = parsed
	return nil
}
