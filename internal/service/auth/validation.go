package auth

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/service/auth/models"
)

const (
	msgInvalidEmail    = "Bitte geben Sie eine gültige E-Mail-Adresse ein"
	msgPasswordTooWeak = "Das Passwort muss mindestens 8 Zeichen lang sein"
	msgNameRequired    = "Bitte geben Sie Ihren Namen ein"
	msgNameTooLong     = "Der Name ist zu lang"
	msgInvalidRole     = "Unbekannte Rolle"
	msgPasswordMissing = "Bitte geben Sie Ihr Passwort ein"
)

func validateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.NewValidationError("email", msgInvalidEmail)
	}
	return strings.ToLower(email), nil
}

func validateSignUp(req *models.SignUpRequest) (*domain.Profile, error) {
	email, err := validateEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(req.Password) < domain.MinPasswordLength {
		return nil, domain.NewValidationError("password", msgPasswordTooWeak)
	}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, domain.NewValidationError("fullName", msgNameRequired)
	}
	if utf8.RuneCountInString(fullName) > domain.MaxNameLength {
		return nil, domain.NewValidationError("fullName", msgNameTooLong)
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, domain.NewValidationError("role", msgInvalidRole)
	}

	var phone *string
	if req.Phone != nil {
		if trimmed := strings.TrimSpace(*req.Phone); trimmed != "" {
			phone = &trimmed
		}
	}

	return &domain.Profile{
		Email:    email,
		FullName: fullName,
		Phone:    phone,
		Role:     role,
	}, nil
}

func validateSignIn(req *models.SignInRequest) (string, error) {
	email, err := validateEmail(req.Email)
	if err != nil {
		return "", err
	}
	if req.Password == "" {
		return "", domain.NewValidationError("password", msgPasswordMissing)
	}
	return email, nil
}
