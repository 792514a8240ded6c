package sign_out

import (
	"net/http"

	"github.com/m04kA/MediTime-BookingService/internal/api/handlers"
	"github.com/m04kA/MediTime-BookingService/internal/api/middleware"
)

const (
	msgUnauthorized = "Bitte melden Sie sich an"
)

type Handler struct {
	service AuthService
	logger  Logger
}

func NewHandler(service AuthService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/auth/sign-out
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	if err := h.service.SignOut(r.Context(), principal); err != nil {
		h.logger.Error("POST /auth/sign-out - Failed to sign out: user_id=%d, error=%v", principal.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /auth/sign-out - Signed out successfully: user_id=%d", principal.UserID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
