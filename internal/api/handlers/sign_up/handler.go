package sign_up

import (
	"errors"
	"net/http"

	"github.com/m04kA/MediTime-BookingService/internal/api/handlers"
	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/service/auth"
	"github.com/m04kA/MediTime-BookingService/internal/service/auth/models"
)

const (
	msgInvalidRequestBody = "Ungültige Anfrage"
	msgDuplicateAccount   = "Für diese E-Mail-Adresse existiert bereits ein Konto"
	msgNetwork            = "Verbindungsproblem. Bitte versuchen Sie es erneut"
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

// Handle POST /api/v1/auth/sign-up
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/sign-up - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SignUp(r.Context(), &req)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			h.logger.Warn("POST /auth/sign-up - Validation failed: field=%s", validationErr.Field)
			handlers.RespondValidationError(w, validationErr.Field, validationErr.Message)
			return
		}

		reason, _ := auth.ReasonOf(err)
		switch reason {
		case auth.ReasonDuplicateAccount:
			h.logger.Warn("POST /auth/sign-up - Duplicate account")
			handlers.RespondErrorCode(w, http.StatusConflict, string(reason), msgDuplicateAccount)
		case auth.ReasonNetwork:
			h.logger.Error("POST /auth/sign-up - Backend unavailable: %v", err)
			handlers.RespondErrorCode(w, http.StatusServiceUnavailable, string(reason), msgNetwork)
		default:
			h.logger.Error("POST /auth/sign-up - Failed to sign up: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /auth/sign-up - Account created successfully: user_id=%d, role=%s", result.User.ID, result.User.Role)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
