package update_profile

import (
	"errors"
	"net/http"

	"github.com/m04kA/MediTime-BookingService/internal/api/handlers"
	"github.com/m04kA/MediTime-BookingService/internal/api/middleware"
	"github.com/m04kA/MediTime-BookingService/internal/service/profiles"
	"github.com/m04kA/MediTime-BookingService/internal/service/profiles/models"
)

const (
	msgUnauthorized       = "Bitte melden Sie sich an"
	msgInvalidRequestBody = "Ungültige Anfrage"
	msgInvalidName        = "Bitte geben Sie Ihren vollständigen Namen an"
	msgNotFound           = "Profil nicht gefunden"
)

type Handler struct {
	service ProfileService
	logger  Logger
}

func NewHandler(service ProfileService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/profile
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req models.UpdateProfileRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /profile - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), principal.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, profiles.ErrInvalidInput):
			h.logger.Warn("PUT /profile - Invalid input: user_id=%d, error=%v", principal.UserID, err)
			handlers.RespondValidationError(w, "fullName", msgInvalidName)

		case errors.Is(err, profiles.ErrProfileNotFound):
			h.logger.Warn("PUT /profile - Profile not found: user_id=%d", principal.UserID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("PUT /profile - Failed to update profile: user_id=%d, error=%v", principal.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /profile - Profile updated successfully: user_id=%d", principal.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
