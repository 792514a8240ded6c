package get_my_practice

import (
	"errors"
	"net/http"

	"github.com/m04kA/MediTime-BookingService/internal/api/handlers"
	"github.com/m04kA/MediTime-BookingService/internal/api/middleware"
	"github.com/m04kA/MediTime-BookingService/internal/service/practices"
)

const (
	msgUnauthorized = "Bitte melden Sie sich an"
	msgForbidden    = "Nur Praxiskonten haben eine eigene Praxis"
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

// Handle GET /api/v1/practices/mine
// Для нового практика создает практику с настройками по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.service.GetOrCreateMine(r.Context(), principal.UserID, principal.Role)
	if err != nil {
		if errors.Is(err, practices.ErrAccessDenied) {
			h.logger.Warn("GET /practices/mine - Access denied: user_id=%d, role=%s", principal.UserID, principal.Role)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		h.logger.Error("GET /practices/mine - Failed to get practice: user_id=%d, error=%v", principal.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /practices/mine - Practice retrieved successfully: user_id=%d, practice_id=%d", principal.UserID, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
