package update_practice

import (
	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/service/practices/models"
)

// UpdatePracticeRequest HTTP request model
// Владелец берется из сессии, переданные поля обновляются
type UpdatePracticeRequest struct {
	Name         *string              `json:"name,omitempty"`
	Specialty    *string              `json:"specialty,omitempty"`
	Description  *string              `json:"description,omitempty"`
	Address      *string              `json:"address,omitempty"`
	City         *string              `json:"city,omitempty"`
	PostalCode   *string              `json:"postalCode,omitempty"`
	Phone        *string              `json:"phone,omitempty"`
	Email        *string              `json:"email,omitempty"`
	Latitude     *float64             `json:"latitude,omitempty"`
	Longitude    *float64             `json:"longitude,omitempty"`
	OpeningHours *domain.OpeningHours `json:"openingHours,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdatePracticeRequest) ToServiceRequest(userID int64) *models.UpdatePracticeRequest {
	return &models.UpdatePracticeRequest{
		UserID:       userID,
		Name:         r.Name,
		Specialty:    r.Specialty,
		Description:  r.Description,
		Address:      r.Address,
		City:         r.City,
		PostalCode:   r.PostalCode,
		Phone:        r.Phone,
		Email:        r.Email,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		OpeningHours: r.OpeningHours,
	}
}
