package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/infra/changefeed"
	appointmentRepo "github.com/m04kA/MediTime-BookingService/internal/infra/storage/appointment"
	practiceRepo "github.com/m04kA/MediTime-BookingService/internal/infra/storage/practice"
	"github.com/m04kA/MediTime-BookingService/internal/service/appointments/models"
)

// Кто отменил запись (метка метрики)
const (
	cancelledByPatient  = "patient"
	cancelledByPractice = "practice"
)

// Service сервис для работы с записями на прием
type Service struct {
	appointmentRepo AppointmentRepository
	practiceRepo    PracticeRepository
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	location        *time.Location
	now             func() time.Time
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	practiceRepo PracticeRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		practiceRepo:    practiceRepo,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		location:        location,
		now:             time.Now,
		logger:          logger,
	}
}

// GetPatientAppointments получает записи пациента
// upcoming: будущие без отмененных по возрастанию, past: прошедшие по убыванию
func (s *Service) GetPatientAppointments(ctx context.Context, req *models.GetPatientAppointmentsRequest) (*models.PatientAppointmentListResponse, error) {
	s.logger.Info("GetPatientAppointments: patient=%d, scope=%q", req.PatientID, req.Scope)

	scope, ok := models.ToDomainScope(req.Scope)
	if !ok {
		s.logger.Warn("GetPatientAppointments: invalid scope=%q for patient=%d", req.Scope, req.PatientID)
		return nil, fmt.Errorf("%w: invalid scope", ErrInvalidInput)
	}

	items, err := s.appointmentRepo.GetByPatient(ctx, domain.PatientAppointmentsFilter{
		PatientID: req.PatientID,
		Scope:     scope,
		Now:       s.now(),
	})
	if err != nil {
		s.logger.Error("GetPatientAppointments: repository error for patient=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: GetPatientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPatientAppointments: fetched %d appointments for patient=%d", len(items), req.PatientID)
	return models.FromDomainPatientAppointments(scope, items, s.location), nil
}

// Cancel отменяет запись пациентом
// Пациент может отменить только свою запись в статусе pending или confirmed
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by patient=%d", appointmentID, req.PatientID)

	var updated *domain.Appointment
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		a, err := s.getAppointment(txCtx, "Cancel", appointmentID)
		if err != nil {
			return err
		}

		if a.PatientID != req.PatientID {
			s.logger.Warn("Cancel: patient=%d is not the owner of appointment id=%d", req.PatientID, appointmentID)
			return ErrAccessDenied
		}

		if !a.CanBeCancelled() {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, a.Status)
			return ErrCannotCancel
		}

		updated, err = s.updateStatus(txCtx, "Cancel", appointmentID, domain.StatusCancelled)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncAppointmentsCancelled(cancelledByPatient)
	s.publish(ctx, "Cancel", updated)

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)
	return models.FromDomainAppointment(updated, s.location), nil
}

// GetPracticeAppointments получает записи практики на дату
// Доступно только владельцу практики
func (s *Service) GetPracticeAppointments(ctx context.Context, req *models.GetPracticeAppointmentsRequest) (*models.PracticeAppointmentListResponse, error) {
	s.logger.Info("GetPracticeAppointments: practice=%d, user=%d, date=%s",
		req.PracticeID, req.UserID, req.Date.Format(domain.DateFormat))

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := s.checkOwnerAccess(ctx, "GetPracticeAppointments", req.PracticeID, req.UserID); err != nil {
		return nil, err
	}

	date := domain.DateIn(req.Date, s.location)
	items, err := s.appointmentRepo.GetByPracticeAndDay(ctx, req.PracticeID, domain.StartOfDay(date), domain.EndOfDay(date))
	if err != nil {
		s.logger.Error("GetPracticeAppointments: repository error for practice=%d: %v", req.PracticeID, err)
		return nil, fmt.Errorf("%w: GetPracticeAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPracticeAppointments: fetched %d appointments for practice=%d", len(items), req.PracticeID)
	return models.FromDomainPracticeAppointments(req.PracticeID, date, items, s.location), nil
}

// UpdateStatus обновляет статус записи
// Доступно только владельцу практики
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d",
		appointmentID, req.Status, req.UserID)

	newStatus, err := domain.ParseAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var updated *domain.Appointment
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		a, err := s.getAppointment(txCtx, "UpdateStatus", appointmentID)
		if err != nil {
			return err
		}

		if err := s.checkOwnerAccess(txCtx, "UpdateStatus", a.PracticeID, req.UserID); err != nil {
			return err
		}

		updated, err = s.updateStatus(txCtx, "UpdateStatus", appointmentID, newStatus)
		return err
	})
	if err != nil {
		return nil, err
	}

	if newStatus == domain.StatusCancelled {
		s.metrics.IncAppointmentsCancelled(cancelledByPractice)
	}
	s.publish(ctx, "UpdateStatus", updated)

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", appointmentID, newStatus)
	return models.FromDomainAppointment(updated, s.location), nil
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	a, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return a, nil
}

func (s *Service) updateStatus(ctx context.Context, op string, id int64, status domain.AppointmentStatus) (*domain.Appointment, error) {
	updated, err := s.appointmentRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			return nil, ErrAppointmentNotFound
		case errors.Is(err, appointmentRepo.ErrSlotTaken):
			s.logger.Warn("%s: slot of appointment id=%d is taken by another appointment", op, id)
			return nil, ErrSlotTaken
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return updated, nil
}

// checkOwnerAccess проверяет, что пользователь владелец практики
func (s *Service) checkOwnerAccess(ctx context.Context, op string, practiceID, userID int64) error {
	practice, err := s.practiceRepo.GetByID(ctx, practiceID)
	if err != nil {
		if errors.Is(err, practiceRepo.ErrPracticeNotFound) {
			s.logger.Warn("%s: practice id=%d not found", op, practiceID)
			return ErrPracticeNotFound
		}
		s.logger.Error("%s: failed to get practice id=%d: %v", op, practiceID, err)
		return fmt.Errorf("%w: %s - failed to get practice: %v", ErrInternal, op, err)
	}

	if !practice.IsOwnedBy(userID) {
		s.logger.Warn("%s: user=%d is not the owner of practice=%d", op, userID, practiceID)
		return ErrAccessDenied
	}
	return nil
}

func (s *Service) publish(ctx context.Context, op string, a *domain.Appointment) {
	ev, err := changefeed.AppointmentEvent(changefeed.EventUpdate, a)
	if err != nil {
		s.logger.Error("%s: failed to build event for appointment id=%d: %v", op, a.ID, err)
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("%s: failed to publish event for appointment id=%d: %v", op, a.ID, err)
	}
}
