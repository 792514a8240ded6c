package practices

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/infra/changefeed"
	practiceRepo "github.com/m04kA/MediTime-BookingService/internal/infra/storage/practice"
	"github.com/m04kA/MediTime-BookingService/internal/service/practices/models"
)

// Service сервис для работы с практиками и временем ожидания
type Service struct {
	practiceRepo PracticeRepository
	publisher    EventPublisher
	metrics      Metrics
	logger       Logger
}

// NewService создает новый экземпляр сервиса практик
func NewService(
	practiceRepo PracticeRepository,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		practiceRepo: practiceRepo,
		publisher:    publisher,
		metrics:      metrics,
		logger:       logger,
	}
}

// List получает список практик с текущим временем ожидания
// Публичный метод - доступен всем
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.PracticeListResponse, error) {
	s.logger.Info("List: fetching practices, specialty=%v, search=%v", derefOrEmpty(req.Specialty), derefOrEmpty(req.Search))

	// 1. Валидируем фильтр
	if err := validateListRequest(req); err != nil {
		s.logger.Warn("List: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем практики
	items, err := s.practiceRepo.List(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	if len(items) == 0 {
		return models.FromDomainPractices(items, nil), nil
	}

	// 3. Обогащаем временем ожидания одним запросом
	ids := make([]int64, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	waitTimes, err := s.practiceRepo.ListWaitTimes(ctx, ids)
	if err != nil {
		s.logger.Error("List: failed to get wait times: %v", err)
		return nil, fmt.Errorf("%w: List - failed to get wait times: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d practices", len(items))
	return models.FromDomainPractices(items, waitTimes), nil
}

// Get получает практику по ID
// Публичный метод - доступен всем
func (s *Service) Get(ctx context.Context, id int64) (*models.PracticeResponse, error) {
	s.logger.Info("Get: fetching practice id=%d", id)

	practice, err := s.getPractice(ctx, "Get", id)
	if err != nil {
		return nil, err
	}

	waitTime, err := s.getWaitTime(ctx, "Get", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainPractice(practice, waitTime), nil
}

// GetOrCreateMine получает практику владельца, при первом входе создает практику по умолчанию
// Доступно только пользователям с ролью practice
func (s *Service) GetOrCreateMine(ctx context.Context, userID int64, role domain.Role) (*models.PracticeResponse, error) {
	s.logger.Info("GetOrCreateMine: user=%d, role=%s", userID, role)

	if role != domain.RolePractice {
		s.logger.Warn("GetOrCreateMine: user=%d has role=%s", userID, role)
		return nil, ErrAccessDenied
	}

	practice, err := s.practiceRepo.GetByOwner(ctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, practiceRepo.ErrPracticeNotFound):
		practice, err = s.practiceRepo.Create(ctx, &domain.Practice{
			OwnerID:   userID,
			Name:      domain.DefaultPracticeName,
			Specialty: domain.DefaultPracticeSpecialty,
		})
		if err != nil {
			s.logger.Error("GetOrCreateMine: failed to create practice for user=%d: %v", userID, err)
			return nil, fmt.Errorf("%w: GetOrCreateMine - failed to create practice: %v", ErrInternal, err)
		}
		s.logger.Info("GetOrCreateMine: created default practice id=%d for user=%d", practice.ID, userID)
		s.publish(ctx, "GetOrCreateMine", practice.ID, func() (changefeed.Event, error) {
			return changefeed.PracticeEvent(changefeed.EventInsert, practice)
		})
	default:
		s.logger.Error("GetOrCreateMine: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetOrCreateMine - repository error: %v", ErrInternal, err)
	}

	waitTime, err := s.getWaitTime(ctx, "GetOrCreateMine", practice.ID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainPractice(practice, waitTime), nil
}

// Update обновляет настройки и часы работы практики
// Доступно только владельцу практики
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdatePracticeRequest) (*models.PracticeResponse, error) {
	s.logger.Info("Update: updating practice id=%d by user=%d", id, req.UserID)

	// 1. Валидируем входные данные
	if err := validateUpdateRequest(req); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем практику и проверяем владельца
	practice, err := s.getPractice(ctx, "Update", id)
	if err != nil {
		return nil, err
	}
	if !practice.IsOwnedBy(req.UserID) {
		s.logger.Warn("Update: user=%d is not the owner of practice=%d", req.UserID, id)
		return nil, ErrAccessDenied
	}

	// 3. Применяем изменения и сохраняем
	req.ApplyTo(practice)
	updated, err := s.practiceRepo.Update(ctx, practice)
	if err != nil {
		if errors.Is(err, practiceRepo.ErrPracticeNotFound) {
			return nil, ErrPracticeNotFound
		}
		s.logger.Error("Update: repository error for practice id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.publish(ctx, "Update", id, func() (changefeed.Event, error) {
		return changefeed.PracticeEvent(changefeed.EventUpdate, updated)
	})

	waitTime, err := s.getWaitTime(ctx, "Update", id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated practice id=%d", id)
	return models.FromDomainPractice(updated, waitTime), nil
}

// UpdateWaitTime обновляет текущее время ожидания
// Доступно только владельцу практики
func (s *Service) UpdateWaitTime(ctx context.Context, id int64, req *models.UpdateWaitTimeRequest) (*models.WaitTimeResponse, error) {
	s.logger.Info("UpdateWaitTime: practice id=%d, minutes=%d by user=%d", id, req.Minutes, req.UserID)

	if err := validateWaitTime(req.Minutes); err != nil {
		s.logger.Warn("UpdateWaitTime: validation failed: %v", err)
		return nil, err
	}

	practice, err := s.getPractice(ctx, "UpdateWaitTime", id)
	if err != nil {
		return nil, err
	}
	if !practice.IsOwnedBy(req.UserID) {
		s.logger.Warn("UpdateWaitTime: user=%d is not the owner of practice=%d", req.UserID, id)
		return nil, ErrAccessDenied
	}

	waitTime, err := s.practiceRepo.UpsertWaitTime(ctx, id, req.Minutes)
	if err != nil {
		s.logger.Error("UpdateWaitTime: repository error for practice id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateWaitTime - repository error: %v", ErrInternal, err)
	}

	s.metrics.IncWaitTimeUpdates()
	s.publish(ctx, "UpdateWaitTime", id, func() (changefeed.Event, error) {
		return changefeed.WaitTimeEvent(waitTime)
	})

	s.logger.Info("UpdateWaitTime: practice id=%d now at %d minutes (%s)", id, waitTime.CurrentWaitMinutes, waitTime.Tier())
	return models.FromDomainWaitTime(waitTime), nil
}

// Вспомогательные методы

func (s *Service) getPractice(ctx context.Context, op string, id int64) (*domain.Practice, error) {
	practice, err := s.practiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, practiceRepo.ErrPracticeNotFound) {
			s.logger.Warn("%s: practice id=%d not found", op, id)
			return nil, ErrPracticeNotFound
		}
		s.logger.Error("%s: repository error for practice id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return practice, nil
}

// getWaitTime возвращает nil, если время ожидания еще не задавалось
func (s *Service) getWaitTime(ctx context.Context, op string, practiceID int64) (*domain.WaitTime, error) {
	waitTime, err := s.practiceRepo.GetWaitTime(ctx, practiceID)
	if err != nil {
		if errors.Is(err, practiceRepo.ErrWaitTimeNotFound) {
			return nil, nil
		}
		s.logger.Error("%s: failed to get wait time for practice id=%d: %v", op, practiceID, err)
		return nil, fmt.Errorf("%w: %s - failed to get wait time: %v", ErrInternal, op, err)
	}
	return waitTime, nil
}

func (s *Service) publish(ctx context.Context, op string, practiceID int64, build func() (changefeed.Event, error)) {
	ev, err := build()
	if err != nil {
		s.logger.Error("%s: failed to build event for practice id=%d: %v", op, practiceID, err)
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("%s: failed to publish event for practice id=%d: %v", op, practiceID, err)
	}
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
