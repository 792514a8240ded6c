package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/infra/changefeed"
	appointmentRepo "github.com/m04kA/MediTime-BookingService/internal/infra/storage/appointment"
	practiceRepo "github.com/m04kA/MediTime-BookingService/internal/infra/storage/practice"
	"github.com/m04kA/MediTime-BookingService/pkg/txmanager"
)

// UseCase use case для создания записи на прием
type UseCase struct {
	appointmentRepo AppointmentRepository
	practiceRepo    PracticeRepository
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	settings        domain.SlotSettings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	practiceRepo PracticeRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	settings domain.SlotSettings,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		practiceRepo:    practiceRepo,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания записи
// Проверка слота и вставка выполняются в сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	parsed, err := validateRequest(req, uc.settings.Location)
	if err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateAppointment: patient=%d, practice=%d, date=%s, time=%s",
		req.PatientID, req.PracticeID, parsed.date.Format(domain.DateFormat), parsed.startTime)

	// 2. Проверяем, что время в будущем и в пределах горизонта записи
	now := uc.timeProvider.Now().In(parsed.date.Location())

	appointmentAt, err := parsed.startTime.On(parsed.date)
	if err != nil {
		return nil, domain.NewValidationError("time", msgInvalidTime)
	}
	if !appointmentAt.After(now) {
		uc.logger.Warn("CreateAppointment: slot %s is in the past", appointmentAt.Format("2006-01-02 15:04"))
		return nil, ErrSlotInPast
	}
	if days := uc.settings.MaxAdvanceDays; days > 0 && parsed.date.After(domain.StartOfDay(now).AddDate(0, 0, days)) {
		return nil, fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, days)
	}

	// 3. Получаем практику
	practice, err := uc.practiceRepo.GetByID(ctx, req.PracticeID)
	if err != nil {
		if errors.Is(err, practiceRepo.ErrPracticeNotFound) {
			uc.logger.Warn("CreateAppointment: practice id=%d not found", req.PracticeID)
			return nil, ErrPracticeNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get practice id=%d: %v", req.PracticeID, err)
		return nil, fmt.Errorf("%w: failed to get practice: %v", ErrInternal, err)
	}

	// 4. Время должно совпадать со слотом, который показал бы генератор
	slots := domain.SlotsForDate(practice, parsed.date, uc.settings.Defaults, uc.settings.HonorOpeningHours)
	if !domain.ContainsSlot(slots, parsed.startTime) {
		uc.logger.Warn("CreateAppointment: %s is not a slot of practice id=%d on %s",
			parsed.startTime, req.PracticeID, parsed.date.Format(domain.DateFormat))
		return nil, ErrInvalidSlot
	}

	var created *domain.Appointment

	// 5. Повторная проверка занятости и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Получаем занятое время дня с блокировкой
		// Цепочка ошибки сохраняется, чтобы txmanager распознал 40001
		booked, err := uc.appointmentRepo.GetBookedTimes(txCtx, req.PracticeID,
			domain.StartOfDay(parsed.date), domain.EndOfDay(parsed.date))
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get booked times: %v", err)
			return fmt.Errorf("%w: failed to get booked times: %w", ErrInternal, err)
		}

		// 5.2. Проверяем слот тем же фильтром, что и список свободных слотов
		requested := []domain.TimeSlot{{StartTime: parsed.startTime}}
		if len(domain.FilterAvailable(requested, booked, parsed.date.Location())) == 0 {
			return ErrSlotNotAvailable
		}

		// 5.3. Создаем запись
		a, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			PracticeID:      req.PracticeID,
			PatientID:       req.PatientID,
			AppointmentDate: appointmentAt,
			Status:          domain.StatusPending,
			Notes:           parsed.notes,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				return ErrSlotNotAvailable
			}
			return err
		}

		created = a
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) || txmanager.IsSerializationFailure(err) {
			uc.metrics.IncBookingConflicts()
			uc.logger.Warn("CreateAppointment: slot %s at practice id=%d already taken",
				appointmentAt.Format("2006-01-02 15:04"), req.PracticeID)
			return nil, ErrSlotNotAvailable
		}
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
	}

	uc.metrics.IncAppointmentsBooked()
	uc.logger.Info("CreateAppointment: created appointment id=%d", created.ID)

	// 6. Публикуем изменение, ошибка публикации не отменяет запись
	uc.publish(ctx, created)

	return &Response{
		ID:              created.ID,
		PracticeID:      created.PracticeID,
		PatientID:       created.PatientID,
		AppointmentDate: created.AppointmentDate,
		Date:            parsed.date.Format(domain.DateFormat),
		StartTime:       parsed.startTime,
		Status:          string(created.Status),
		Notes:           created.Notes,
		CreatedAt:       created.CreatedAt,
	}, nil
}

func (uc *UseCase) publish(ctx context.Context, a *domain.Appointment) {
	ev, err := changefeed.AppointmentEvent(changefeed.EventInsert, a)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to build event for id=%d: %v", a.ID, err)
		return
	}
	if err := uc.publisher.Publish(ctx, ev); err != nil {
		uc.logger.Warn("CreateAppointment: failed to publish event for id=%d: %v", a.ID, err)
	}
}
