package get_session

import (
	"net/http"

	"github.com/m04kA/MediTime-BookingService/internal/api/handlers"
	"github.com/m04kA/MediTime-BookingService/internal/api/middleware"
	"github.com/m04kA/MediTime-BookingService/internal/service/auth"
)

const (
	msgUnauthorized   = "Bitte melden Sie sich an"
	msgSessionExpired = "Ihre Sitzung ist abgelaufen. Bitte melden Sie sich erneut an"
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

// Handle GET /api/v1/auth/session
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	user, err := h.service.CurrentUser(r.Context(), principal)
	if err != nil {
		if reason, ok := auth.ReasonOf(err); ok && reason == auth.ReasonSessionExpired {
			h.logger.Warn("GET /auth/session - Session expired: user_id=%d", principal.UserID)
			handlers.RespondErrorCode(w, http.StatusUnauthorized, string(reason), msgSessionExpired)
			return
		}
		h.logger.Error("GET /auth/session - Failed to load user: user_id=%d, error=%v", principal.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, user)
}
