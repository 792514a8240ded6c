package update_wait_time

import (
	"github.com/m04kA/MediTime-BookingService/internal/service/practices/models"
)

// UpdateWaitTimeRequest HTTP request model
type UpdateWaitTimeRequest struct {
	Minutes *int `json:"minutes"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateWaitTimeRequest) ToServiceRequest(userID int64) *models.UpdateWaitTimeRequest {
	return &models.UpdateWaitTimeRequest{
		UserID:  userID,
		Minutes: *r.Minutes,
	}
}
