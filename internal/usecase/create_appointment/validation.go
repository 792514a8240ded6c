package create_appointment

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/pkg/types"
)

// Сообщения валидации показываются пользователю
const (
	msgLoginRequired    = "Bitte melden Sie sich an"
	msgPracticeRequired = "Bitte wählen Sie eine Praxis"
	msgDateTimeRequired = "Bitte wählen Sie Datum und Uhrzeit"
	msgInvalidDate      = "Ungültiges Datum"
	msgInvalidTime      = "Ungültige Uhrzeit"
	msgNotesTooLong     = "Notiz ist zu lang"
)

// parsedRequest проверенные данные запроса
type parsedRequest struct {
	date      time.Time // полночь даты в зоне loc
	startTime types.TimeString
	notes     *string
}

// validateRequest валидирует входные данные, ошибки - *domain.ValidationError
func validateRequest(req *Request, loc *time.Location) (*parsedRequest, error) {
	if req == nil || req.PatientID <= 0 {
		return nil, domain.NewValidationError("user", msgLoginRequired)
	}

	if req.PracticeID <= 0 {
		return nil, domain.NewValidationError("practiceId", msgPracticeRequired)
	}

	dateStr := strings.TrimSpace(req.Date)
	timeStr := strings.TrimSpace(req.Time)
	if dateStr == "" {
		return nil, domain.NewValidationError("date", msgDateTimeRequired)
	}
	if timeStr == "" {
		return nil, domain.NewValidationError("time", msgDateTimeRequired)
	}

	if loc == nil {
		loc = time.Local
	}
	date, err := time.ParseInLocation(domain.DateFormat, dateStr, loc)
	if err != nil {
		return nil, domain.NewValidationError("date", msgInvalidDate)
	}

	startTime, err := types.NewTimeStringFromString(timeStr)
	if err != nil {
		return nil, domain.NewValidationError("time", msgInvalidTime)
	}

	notes := req.Notes
	if notes != nil {
		trimmed := strings.TrimSpace(*notes)
		if utf8.RuneCountInString(trimmed) > domain.MaxNotesLength {
			return nil, domain.NewValidationError("notes", msgNotesTooLong)
		}
		if trimmed == "" {
			notes = nil
		} else {
			notes = &trimmed
		}
	}

	return &parsedRequest{date: date, startTime: startTime, notes: notes}, nil
}
