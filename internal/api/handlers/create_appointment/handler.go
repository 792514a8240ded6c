package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/MediTime-BookingService/internal/api/handlers"
	"github.com/m04kA/MediTime-BookingService/internal/api/middleware"
	"github.com/m04kA/MediTime-BookingService/internal/domain"
	createAppointment "github.com/m04kA/MediTime-BookingService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "Ungültige Anfrage"
	msgUnauthorized       = "Bitte melden Sie sich an"
	msgSlotNotAvailable   = "Dieser Termin ist leider nicht mehr verfügbar"
	msgPracticeNotFound   = "Praxis nicht gefunden"
	msgSlotInPast         = "Der gewählte Termin liegt in der Vergangenheit"
	msgDateTooFar         = "Termine können nicht so weit im Voraus gebucht werden"
	msgInvalidSlot        = "Zu dieser Uhrzeit bietet die Praxis keinen Termin an"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(principal.UserID))
	if err != nil {
		var validationErr *domain.ValidationError
		switch {
		case errors.As(err, &validationErr):
			h.logger.Warn("POST /appointments - Validation failed: user_id=%d, field=%s", principal.UserID, validationErr.Field)
			handlers.RespondValidationError(w, validationErr.Field, validationErr.Message)

		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: user_id=%d, practice_id=%d, date=%s, time=%s",
				principal.UserID, req.PracticeID, req.Date, req.Time)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrPracticeNotFound):
			h.logger.Warn("POST /appointments - Practice not found: practice_id=%d", req.PracticeID)
			handlers.RespondNotFound(w, msgPracticeNotFound)

		case errors.Is(err, createAppointment.ErrSlotInPast):
			h.logger.Warn("POST /appointments - Slot in the past: user_id=%d, date=%s, time=%s", principal.UserID, req.Date, req.Time)
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
			h.logger.Warn("POST /appointments - Date too far in future: user_id=%d, date=%s", principal.UserID, req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createAppointment.ErrInvalidSlot):
			h.logger.Warn("POST /appointments - Invalid slot: practice_id=%d, date=%s, time=%s", req.PracticeID, req.Date, req.Time)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: user_id=%d, practice_id=%d, error=%v",
				principal.UserID, req.PracticeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, user_id=%d, practice_id=%d",
		result.ID, principal.UserID, req.PracticeID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
