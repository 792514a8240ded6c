package update_wait_time

import (
	"errors"
	"net/http"

	"github.com/m04kA/MediTime-BookingService/internal/api/handlers"
	"github.com/m04kA/MediTime-BookingService/internal/api/middleware"
	"github.com/m04kA/MediTime-BookingService/internal/service/practices"
)

const (
	msgUnauthorized       = "Bitte melden Sie sich an"
	msgInvalidPracticeID  = "Ungültige Praxis-ID"
	msgInvalidRequestBody = "Ungültige Anfrage"
	msgMinutesRequired    = "Bitte geben Sie die Wartezeit in Minuten an"
	msgInvalidMinutes     = "Die Wartezeit muss zwischen 0 und 600 Minuten liegen"
	msgPracticeNotFound   = "Praxis nicht gefunden"
	msgForbidden          = "Nur der Inhaber darf die Wartezeit ändern"
)

type Handler struct {
	service PracticeService
	logger  Logger
}

func NewHandler(service PracticeService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/practices/{practiceId}/wait-time
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	practiceID, err := handlers.PathInt64(r, "practiceId")
	if err != nil {
		h.logger.Warn("PUT /practices/{id}/wait-time - Invalid practice ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPracticeID)
		return
	}

	var req UpdateWaitTimeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /practices/{id}/wait-time - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.Minutes == nil {
		handlers.RespondValidationError(w, "minutes", msgMinutesRequired)
		return
	}

	result, err := h.service.UpdateWaitTime(r.Context(), practiceID, req.ToServiceRequest(principal.UserID))
	if err != nil {
		switch {
		case errors.Is(err, practices.ErrInvalidInput):
			h.logger.Warn("PUT /practices/{id}/wait-time - Invalid minutes: practice_id=%d, minutes=%d", practiceID, *req.Minutes)
			handlers.RespondValidationError(w, "minutes", msgInvalidMinutes)

		case errors.Is(err, practices.ErrPracticeNotFound):
			h.logger.Warn("PUT /practices/{id}/wait-time - Practice not found: practice_id=%d", practiceID)
			handlers.RespondNotFound(w, msgPracticeNotFound)

		case errors.Is(err, practices.ErrAccessDenied):
			h.logger.Warn("PUT /practices/{id}/wait-time - Access denied: practice_id=%d, user_id=%d", practiceID, principal.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /practices/{id}/wait-time - Failed to update wait time: practice_id=%d, error=%v", practiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /practices/{id}/wait-time - Wait time updated successfully: practice_id=%d, minutes=%d, tier=%s",
		practiceID, result.Minutes, result.Tier)
	handlers.RespondJSON(w, http.StatusOK, result)
}
