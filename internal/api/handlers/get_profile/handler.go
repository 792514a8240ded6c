package get_profile

import (
	"errors"
	"net/http"

	"github.com/m04kA/MediTime-BookingService/internal/api/handlers"
	"github.com/m04kA/MediTime-BookingService/internal/api/middleware"
	"github.com/m04kA/MediTime-BookingService/internal/service/profiles"
)

const (
	msgUnauthorized = "Bitte melden Sie sich an"
	msgNotFound     = "Profil nicht gefunden"
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

// Handle GET /api/v1/profile
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.service.Get(r.Context(), principal.UserID)
	if err != nil {
		if errors.Is(err, profiles.ErrProfileNotFound) {
			h.logger.Warn("GET /profile - Profile not found: user_id=%d", principal.UserID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /profile - Failed to get profile: user_id=%d, error=%v", principal.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
