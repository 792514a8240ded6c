package models

import (
	"time"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
)

// UpdateProfileRequest запрос на обновление профиля
type UpdateProfileRequest struct {
	FullName string  `json:"fullName"`
	Phone    *string `json:"phone,omitempty"`
}

// ProfileResponse данные профиля (без хеша пароля)
type ProfileResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Phone     *string   `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDomainProfile конвертирует профиль
func FromDomainProfile(p *domain.Profile) *ProfileResponse {
	return &ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		Phone:     p.Phone,
		Role:      string(p.Role),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
