package list_practices

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/MediTime-BookingService/internal/api/handlers"
	"github.com/m04kA/MediTime-BookingService/internal/service/practices"
	"github.com/m04kA/MediTime-BookingService/internal/service/practices/models"
)

const (
	msgInvalidFilter = "Ungültiger Suchfilter"
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

// Handle GET /api/v1/practices
// Query params: specialty (optional), search (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &models.ListRequest{
		Specialty: queryParam(r, "specialty"),
		Search:    queryParam(r, "search"),
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, practices.ErrInvalidInput) {
			h.logger.Warn("GET /practices - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		h.logger.Error("GET /practices - Failed to list practices: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /practices - Practices retrieved successfully: count=%d", result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// queryParam пустой параметр - nil
func queryParam(r *http.Request, name string) *string {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return nil
	}
	return &value
}
