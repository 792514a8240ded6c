package domain

import (
	"errors"
	"time"
)

// ErrInvalidRole некорректная роль
var ErrInvalidRole = errors.New("invalid role")

// Role роль пользователя
type Role string

const (
	RolePatient  Role = "patient"
	RolePractice Role = "practice"
)

// ParseRole конвертирует строку в роль, пустая строка - пациент
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "":
		return RolePatient, nil
	case RolePatient, RolePractice:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

// Profile учетная запись и профиль пользователя
type Profile struct {
	ID           int64
	Email        string
	PasswordHash string
	FullName     string
	Phone        *string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsPractice returns true for practice owners
func (p *Profile) IsPractice() bool {
	return p.Role == RolePractice
}

// Session серверная сессия, jti токена
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// IsActive returns true if the session is neither revoked nor expired
func (s *Session) IsActive(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
