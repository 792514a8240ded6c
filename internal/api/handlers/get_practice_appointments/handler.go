package get_practice_appointments

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/MediTime-BookingService/internal/api/handlers"
	"github.com/m04kA/MediTime-BookingService/internal/api/middleware"
	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/service/appointments"
	"github.com/m04kA/MediTime-BookingService/internal/service/appointments/models"
)

const (
	msgUnauthorized      = "Bitte melden Sie sich an"
	msgInvalidPracticeID = "Ungültige Praxis-ID"
	msgMissingDate       = "Bitte wählen Sie ein Datum"
	msgInvalidDate       = "Ungültiges Datum, erwartet wird JJJJ-MM-TT"
	msgPracticeNotFound  = "Praxis nicht gefunden"
	msgForbidden         = "Sie haben keinen Zugriff auf diese Praxis"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/practices/{practiceId}/appointments
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	practiceID, err := handlers.PathInt64(r, "practiceId")
	if err != nil {
		h.logger.Warn("GET /practices/{id}/appointments - Invalid practice ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPracticeID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		handlers.RespondValidationError(w, "date", msgMissingDate)
		return
	}
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /practices/{id}/appointments - Invalid date: %v", err)
		handlers.RespondValidationError(w, "date", msgInvalidDate)
		return
	}

	req := &models.GetPracticeAppointmentsRequest{
		UserID:     principal.UserID,
		PracticeID: practiceID,
		Date:       date,
	}

	result, err := h.service.GetPracticeAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrPracticeNotFound):
			h.logger.Warn("GET /practices/{id}/appointments - Practice not found: practice_id=%d", practiceID)
			handlers.RespondNotFound(w, msgPracticeNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /practices/{id}/appointments - Access denied: practice_id=%d, user_id=%d",
				practiceID, principal.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /practices/{id}/appointments - Failed to get appointments: practice_id=%d, error=%v",
				practiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /practices/{id}/appointments - Appointments retrieved successfully: practice_id=%d, date=%s, count=%d",
		practiceID, result.Date, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
