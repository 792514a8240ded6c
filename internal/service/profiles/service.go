package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	profileRepo "github.com/m04kA/MediTime-BookingService/internal/infra/storage/profile"
	"github.com/m04kA/MediTime-BookingService/internal/service/profiles/models"
)

// Service сервис профилей пользователей
type Service struct {
	profileRepo ProfileRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса профилей
func NewService(profileRepo ProfileRepository, logger Logger) *Service {
	return &Service{profileRepo: profileRepo, logger: logger}
}

// Get получает профиль пользователя
func (s *Service) Get(ctx context.Context, userID int64) (*models.ProfileResponse, error) {
	p, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrProfileNotFound) {
			s.logger.Warn("Get: profile id=%d not found", userID)
			return nil, ErrProfileNotFound
		}
		s.logger.Error("Get: repository error for profile id=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainProfile(p), nil
}

// Update обновляет имя и телефон
func (s *Service) Update(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*models.ProfileResponse, error) {
	s.logger.Info("Update: updating profile id=%d", userID)

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(fullName) > domain.MaxNameLength {
		return nil, fmt.Errorf("%w: full name is too long", ErrInvalidInput)
	}

	var phone *string
	if req.Phone != nil {
		if trimmed := strings.TrimSpace(*req.Phone); trimmed != "" {
			phone = &trimmed
		}
	}

	p, err := s.profileRepo.Update(ctx, userID, fullName, phone)
	if err != nil {
		if errors.Is(err, profileRepo.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("Update: repository error for profile id=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated profile id=%d", userID)
	return models.FromDomainProfile(p), nil
}
