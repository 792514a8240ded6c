package update_practice

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
	msgInvalidSettings    = "Die Praxisdaten sind ungültig"
	msgPracticeNotFound   = "Praxis nicht gefunden"
	msgForbidden          = "Nur der Inhaber darf die Praxis bearbeiten"
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

// Handle PUT /api/v1/practices/{practiceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	practiceID, err := handlers.PathInt64(r, "practiceId")
	if err != nil {
		h.logger.Warn("PUT /practices/{id} - Invalid practice ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPracticeID)
		return
	}

	var req UpdatePracticeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /practices/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), practiceID, req.ToServiceRequest(principal.UserID))
	if err != nil {
		switch {
		case errors.Is(err, practices.ErrInvalidInput):
			h.logger.Warn("PUT /practices/{id} - Invalid settings: practice_id=%d, error=%v", practiceID, err)
			handlers.RespondBadRequest(w, msgInvalidSettings)

		case errors.Is(err, practices.ErrPracticeNotFound):
			h.logger.Warn("PUT /practices/{id} - Practice not found: practice_id=%d", practiceID)
			handlers.RespondNotFound(w, msgPracticeNotFound)

		case errors.Is(err, practices.ErrAccessDenied):
			h.logger.Warn("PUT /practices/{id} - Access denied: practice_id=%d, user_id=%d", practiceID, principal.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /practices/{id} - Failed to update practice: practice_id=%d, error=%v", practiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /practices/{id} - Practice updated successfully: practice_id=%d, user_id=%d", practiceID, principal.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
