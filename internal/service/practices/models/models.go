package models

import (
	"time"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
)

// Request модели

// ListRequest фильтр списка практик
type ListRequest struct {
	Specialty *string `json:"specialty,omitempty"`
	Search    *string `json:"search,omitempty"`
}

// UpdatePracticeRequest запрос на обновление настроек практики
// Все поля опциональны - обновляются только переданные значения
type UpdatePracticeRequest struct {
	UserID       int64                `json:"userId"`
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

// UpdateWaitTimeRequest запрос на обновление времени ожидания
type UpdateWaitTimeRequest struct {
	UserID  int64 `json:"userId"`
	Minutes int   `json:"minutes"`
}

// Response модели

// WaitTimeResponse время ожидания с категорией
type WaitTimeResponse struct {
	PracticeID int64     `json:"practiceId"`
	Minutes    int       `json:"minutes"`
	Tier       string    `json:"tier"`
	Label      string    `json:"label"`
	Color      string    `json:"color"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PracticeResponse данные практики
type PracticeResponse struct {
	ID           int64               `json:"id"`
	OwnerID      int64               `json:"ownerId"`
	Name         string              `json:"name"`
	Specialty    string              `json:"specialty"`
	Description  *string             `json:"description,omitempty"`
	Address      string              `json:"address"`
	City         string              `json:"city"`
	PostalCode   string              `json:"postalCode"`
	Phone        string              `json:"phone"`
	Email        *string             `json:"email,omitempty"`
	Latitude     *float64            `json:"latitude,omitempty"`
	Longitude    *float64            `json:"longitude,omitempty"`
	OpeningHours domain.OpeningHours `json:"openingHours,omitempty"`
	WaitTime     *WaitTimeResponse   `json:"waitTime,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// PracticeListResponse список практик
type PracticeListResponse struct {
	Practices []*PracticeResponse `json:"practices"`
	Total     int                 `json:"total"`
}

// Converters

// FromDomainWaitTime конвертирует время ожидания, nil - нет данных
func FromDomainWaitTime(w *domain.WaitTime) *WaitTimeResponse {
	if w == nil {
		return nil
	}
	tier := w.Tier()
	return &WaitTimeResponse{
		PracticeID: w.PracticeID,
		Minutes:    w.CurrentWaitMinutes,
		Tier:       string(tier),
		Label:      tier.Label(),
		Color:      tier.Color(),
		UpdatedAt:  w.UpdatedAt,
	}
}

// FromDomainPractice конвертирует практику
func FromDomainPractice(p *domain.Practice, w *domain.WaitTime) *PracticeResponse {
	return &PracticeResponse{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		Name:         p.Name,
		Specialty:    p.Specialty,
		Description:  p.Description,
		Address:      p.Address,
		City:         p.City,
		PostalCode:   p.PostalCode,
		Phone:        p.Phone,
		Email:        p.Email,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		OpeningHours: p.OpeningHours,
		WaitTime:     FromDomainWaitTime(w),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// FromDomainPractices конвертирует список, время ожидания по ID практики
func FromDomainPractices(items []*domain.Practice, waitTimes map[int64]*domain.WaitTime) *PracticeListResponse {
	result := make([]*PracticeResponse, 0, len(items))
	for _, p := range items {
		result = append(result, FromDomainPractice(p, waitTimes[p.ID]))
	}
	return &PracticeListResponse{Practices: result, Total: len(result)}
}

// ToDomainFilter конвертирует фильтр списка
func (r *ListRequest) ToDomainFilter() domain.PracticeFilter {
	return domain.PracticeFilter{Specialty: r.Specialty, Search: r.Search}
}

// ApplyTo переносит переданные поля в практику
func (r *UpdatePracticeRequest) ApplyTo(p *domain.Practice) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Specialty != nil {
		p.Specialty = *r.Specialty
	}
	if r.Description != nil {
		p.Description = emptyToNil(r.Description)
	}
	if r.Address != nil {
		p.Address = *r.Address
	}
	if r.City != nil {
		p.City = *r.City
	}
	if r.PostalCode != nil {
		p.PostalCode = *r.PostalCode
	}
	if r.Phone != nil {
		p.Phone = *r.Phone
	}
	if r.Email != nil {
		p.Email = emptyToNil(r.Email)
	}
	if r.Latitude != nil {
		p.Latitude = r.Latitude
	}
	if r.Longitude != nil {
		p.Longitude = r.Longitude
	}
	if r.OpeningHours != nil {
		p.OpeningHours = *r.OpeningHours
	}
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
