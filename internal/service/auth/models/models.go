package models

import (
	"time"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
)

// SignUpRequest регистрация
type SignUpRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName string  `json:"fullName"`
	Phone    *string `json:"phone,omitempty"`
	Role     string  `json:"role,omitempty"` // patient (по умолчанию) или practice
}

// SignInRequest вход
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse пользователь сессии
type UserResponse struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	FullName string  `json:"fullName"`
	Phone    *string `json:"phone,omitempty"`
	Role     string  `json:"role"`
}

// SessionResponse выданная сессия
type SessionResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

// FromDomainProfile конвертирует профиль
func FromDomainProfile(p *domain.Profile) UserResponse {
	return UserResponse{
		ID:       p.ID,
		Email:    p.Email,
		FullName: p.FullName,
		Phone:    p.Phone,
		Role:     string(p.Role),
	}
}
