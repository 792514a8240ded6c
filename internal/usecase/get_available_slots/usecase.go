package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	practiceRepo "github.com/m04kA/MediTime-BookingService/internal/infra/storage/practice"
)

// UseCase use case для получения свободных слотов практики на дату
type UseCase struct {
	appointmentRepo AppointmentRepository
	practiceRepo    PracticeRepository
	settings        domain.SlotSettings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	practiceRepo PracticeRepository,
	settings domain.SlotSettings,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		practiceRepo:    practiceRepo,
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

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Приводим дату и текущее время к зоне практики
	loc := uc.settings.Location
	date := domain.DateIn(req.Date, loc)
	now := uc.timeProvider.Now().In(date.Location())

	uc.logger.Info("GetAvailableSlots: practice=%d, date=%s", req.PracticeID, date.Format(domain.DateFormat))

	if err := validateDate(date, now, uc.settings.MaxAdvanceDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем практику
	practice, err := uc.practiceRepo.GetByID(ctx, req.PracticeID)
	if err != nil {
		if errors.Is(err, practiceRepo.ErrPracticeNotFound) {
			uc.logger.Warn("GetAvailableSlots: practice id=%d not found", req.PracticeID)
			return nil, ErrPracticeNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get practice id=%d: %v", req.PracticeID, err)
		return nil, fmt.Errorf("%w: failed to get practice: %v", ErrInternal, err)
	}

	response := &Response{
		PracticeID: req.PracticeID,
		Date:       date,
		Slots:      []domain.TimeSlot{},
	}

	// 4. Определяем окно приема
	window, open := domain.ResolveWindow(practice, date, uc.settings.Defaults, uc.settings.HonorOpeningHours)
	if !open {
		uc.logger.Info("GetAvailableSlots: practice id=%d is closed on %s", req.PracticeID, date.Format(domain.DateFormat))
		return response, nil
	}
	response.Open = true

	// 5. Генерируем слоты
	slots := domain.ExcludeBreak(domain.GenerateSlots(date, window), window)

	// 6. Получаем занятое время на эту дату
	booked, err := uc.appointmentRepo.GetBookedTimes(ctx, req.PracticeID, domain.StartOfDay(date), domain.EndOfDay(date))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get booked times: %v", err)
		return nil, fmt.Errorf("%w: failed to get booked times: %v", ErrInternal, err)
	}

	// 7. Убираем занятые и уже начавшиеся слоты
	available := domain.FilterAvailable(slots, booked, date.Location())
	response.Slots = domain.DropPast(available, date, now)

	uc.logger.Info("GetAvailableSlots: %d of %d slots free for practice=%d, date=%s",
		len(response.Slots), len(slots), req.PracticeID, date.Format(domain.DateFormat))

	return response, nil
}
