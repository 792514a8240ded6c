package cancel_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/MediTime-BookingService/internal/api/handlers"
	"github.com/m04kA/MediTime-BookingService/internal/api/middleware"
	"github.com/m04kA/MediTime-BookingService/internal/service/appointments"
	"github.com/m04kA/MediTime-BookingService/internal/service/appointments/models"
)

const (
	msgUnauthorized         = "Bitte melden Sie sich an"
	msgInvalidAppointmentID = "Ungültige Termin-ID"
	msgNotFound             = "Termin nicht gefunden"
	msgForbidden            = "Sie dürfen diesen Termin nicht stornieren"
	msgCannotCancel         = "Dieser Termin kann nicht mehr storniert werden"
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

// Handle PATCH /api/v1/appointments/{appointmentId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	appointmentID, err := handlers.PathInt64(r, "appointmentId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.service.Cancel(r.Context(), appointmentID, &models.CancelRequest{PatientID: principal.UserID})
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Access denied: appointment_id=%d, user_id=%d",
				appointmentID, principal.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrCannotCancel):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Cannot cancel: appointment_id=%d", appointmentID)
			handlers.RespondErrorCode(w, http.StatusConflict, "cannot_cancel", msgCannotCancel)

		default:
			h.logger.Error("PATCH /appointments/{id}/cancel - Failed to cancel appointment: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/cancel - Appointment cancelled successfully: appointment_id=%d, user_id=%d",
		appointmentID, principal.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
