package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/MediTime-BookingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/MediTime-BookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidPracticeID = "Ungültige Praxis-ID"
	msgMissingDate       = "Bitte wählen Sie ein Datum"
	msgInvalidDate       = "Ungültiges Datum, erwartet wird JJJJ-MM-TT"
	msgPracticeNotFound  = "Praxis nicht gefunden"
	msgDateInPast        = "Das Datum liegt in der Vergangenheit"
	msgDateTooFar        = "Termine können nicht so weit im Voraus gebucht werden"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/practices/{practiceId}/available-slots
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	practiceID, err := handlers.PathInt64(r, "practiceId")
	if err != nil {
		h.logger.Warn("GET /practices/{id}/available-slots - Invalid practice ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPracticeID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /practices/{id}/available-slots - Missing date")
		handlers.RespondValidationError(w, "date", msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(practiceID, dateStr)
	if err != nil {
		h.logger.Warn("GET /practices/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondValidationError(w, "date", msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrPracticeNotFound):
			h.logger.Warn("GET /practices/{id}/available-slots - Practice not found: practice_id=%d", practiceID)
			handlers.RespondNotFound(w, msgPracticeNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /practices/{id}/available-slots - Date in the past: practice_id=%d, date=%s", practiceID, dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /practices/{id}/available-slots - Date too far: practice_id=%d, date=%s", practiceID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /practices/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPracticeID)

		default:
			h.logger.Error("GET /practices/{id}/available-slots - Failed to get slots: practice_id=%d, date=%s, error=%v",
				practiceID, dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /practices/{id}/available-slots - Slots retrieved successfully: practice_id=%d, date=%s, slots_count=%d",
		practiceID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
