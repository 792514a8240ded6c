package get_practice

import (
	"errors"
	"net/http"

	"github.com/m04kA/MediTime-BookingService/internal/api/handlers"
	"github.com/m04kA/MediTime-BookingService/internal/service/practices"
)

const (
	msgInvalidPracticeID = "Ungültige Praxis-ID"
	msgPracticeNotFound  = "Praxis nicht gefunden"
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

// Handle GET /api/v1/practices/{practiceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	practiceID, err := handlers.PathInt64(r, "practiceId")
	if err != nil {
		h.logger.Warn("GET /practices/{id} - Invalid practice ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPracticeID)
		return
	}

	result, err := h.service.Get(r.Context(), practiceID)
	if err != nil {
		if errors.Is(err, practices.ErrPracticeNotFound) {
			h.logger.Warn("GET /practices/{id} - Practice not found: practice_id=%d", practiceID)
			handlers.RespondNotFound(w, msgPracticeNotFound)
			return
		}
		h.logger.Error("GET /practices/{id} - Failed to get practice: practice_id=%d, error=%v", practiceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /practices/{id} - Practice retrieved successfully: practice_id=%d", practiceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
