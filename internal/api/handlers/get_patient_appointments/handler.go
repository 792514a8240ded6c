package get_patient_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/MediTime-BookingService/internal/api/handlers"
	"github.com/m04kA/MediTime-BookingService/internal/api/middleware"
	"github.com/m04kA/MediTime-BookingService/internal/service/appointments"
	"github.com/m04kA/MediTime-BookingService/internal/service/appointments/models"
)

const (
	msgUnauthorized = "Bitte melden Sie sich an"
	msgInvalidScope = "Ungültiger Filter, erlaubt sind upcoming und past"
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

// Handle GET /api/v1/users/me/appointments
// Query params: scope (optional, upcoming|past)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	scope := r.URL.Query().Get("scope")
	req := &models.GetPatientAppointmentsRequest{
		PatientID: principal.UserID,
		Scope:     scope,
	}

	result, err := h.service.GetPatientAppointments(r.Context(), req)
	if err != nil {
		if errors.Is(err, appointments.ErrInvalidInput) {
			h.logger.Warn("GET /users/me/appointments - Invalid scope: user_id=%d, scope=%s", principal.UserID, scope)
			handlers.RespondBadRequest(w, msgInvalidScope)
			return
		}
		h.logger.Error("GET /users/me/appointments - Failed to get appointments: user_id=%d, error=%v", principal.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /users/me/appointments - Appointments retrieved successfully: user_id=%d, scope=%s, count=%d",
		principal.UserID, result.Scope, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
