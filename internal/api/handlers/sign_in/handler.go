package sign_in

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
	msgInvalidCredentials = "E-Mail oder Passwort ist falsch"
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

// Handle POST /api/v1/auth/sign-in
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/sign-in - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SignIn(r.Context(), &req)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			handlers.RespondValidationError(w, validationErr.Field, validationErr.Message)
			return
		}

		reason, _ := auth.ReasonOf(err)
		switch reason {
		case auth.ReasonInvalidCredentials:
			h.logger.Warn("POST /auth/sign-in - Invalid credentials")
			handlers.RespondErrorCode(w, http.StatusUnauthorized, string(reason), msgInvalidCredentials)
		case auth.ReasonNetwork:
			h.logger.Error("POST /auth/sign-in - Backend unavailable: %v", err)
			handlers.RespondErrorCode(w, http.StatusServiceUnavailable, string(reason), msgNetwork)
		default:
			h.logger.Error("POST /auth/sign-in - Failed to sign in: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /auth/sign-in - Signed in successfully: user_id=%d", result.User.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
