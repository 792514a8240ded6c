package realtime

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/infra/changefeed"
	getAvailableSlots "github.com/m04kA/MediTime-BookingService/internal/usecase/get_available_slots"
)

const inboxSize = 16

// Сообщения об ошибках расчета слотов
const (
	msgPracticeNotFound = "Praxis nicht gefunden"
	msgDateInPast       = "Das gewählte Datum liegt in der Vergangenheit"
	msgDateTooFar       = "Das gewählte Datum liegt zu weit in der Zukunft"
	msgSlotsFailed      = "Freie Termine konnten nicht geladen werden"
)

// сообщения цикла сессии
type (
	dateSelected struct{ date time.Time }
	rowsChanged  struct{}
	slotsResult  struct {
		generation uint64
		date       time.Time
		resp       *getAvailableSlots.Response
		err        error
	}
)

// AvailabilitySession однопоточный цикл расчета слотов одной практики.
// Выбор даты и изменения записей увеличивают generation, результат старого поколения отбрасывается.
type AvailabilitySession struct {
	practiceID int64
	slots      SlotsUseCase
	feed       Feed
	emit       func(ServerMessage)
	logger     Logger

	inbox   chan interface{}
	changed chan struct{} // емкость 1, несколько изменений сливаются в один пересчет
	done    chan struct{}

	// состояние, изменяется только в Run
	selected   time.Time
	generation uint64
}

// NewAvailabilitySession создает сессию, emit вызывается из цикла Run
func NewAvailabilitySession(practiceID int64, slots SlotsUseCase, feed Feed, emit func(ServerMessage), logger Logger) *AvailabilitySession {
	return &AvailabilitySession{
		practiceID: practiceID,
		slots:      slots,
		feed:       feed,
		emit:       emit,
		logger:     logger,
		inbox:      make(chan interface{}, inboxSize),
		changed:    make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
}

// PracticeID практика сессии
func (s *AvailabilitySession) PracticeID() int64 {
	return s.practiceID
}

// SelectDate ставит выбор даты в очередь цикла
func (s *AvailabilitySession) SelectDate(ctx context.Context, date time.Time) {
	select {
	case s.inbox <- dateSelected{date: date}:
	case <-s.done:
	case <-ctx.Done():
	}
}

// Done закрывается после выхода из Run
func (s *AvailabilitySession) Done() <-chan struct{} {
	return s.done
}

// Run обрабатывает сообщения до отмены ctx
func (s *AvailabilitySession) Run(ctx context.Context) {
	defer close(s.done)

	sub := s.feed.Subscribe(domain.CollectionAppointments,
		changefeed.Filter{changefeed.KeyPracticeID: s.practiceID},
		func(changefeed.Event) {
			select {
			case s.changed <- struct{}{}:
			default:
			}
		})
	defer s.feed.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.changed:
			s.handle(ctx, rowsChanged{})
		case msg := <-s.inbox:
			s.handle(ctx, msg)
		}
	}
}

func (s *AvailabilitySession) handle(ctx context.Context, msg interface{}) {
	switch m := msg.(type) {
	case dateSelected:
		s.selected = m.date
		s.recompute(ctx)

	case rowsChanged:
		if s.selected.IsZero() {
			return
		}
		s.recompute(ctx)

	case slotsResult:
		if m.generation != s.generation {
			return
		}
		s.emitResult(m)
	}
}

func (s *AvailabilitySession) recompute(ctx context.Context) {
	s.generation++
	generation, date := s.generation, s.selected

	go func() {
		resp, err := s.slots.Execute(ctx, &getAvailableSlots.Request{PracticeID: s.practiceID, Date: date})
		select {
		case s.inbox <- slotsResult{generation: generation, date: date, resp: resp, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (s *AvailabilitySession) emitResult(r slotsResult) {
	if r.err != nil {
		switch {
		case errors.Is(r.err, getAvailableSlots.ErrPracticeNotFound):
			s.emit(errorMessage("practice_not_found", msgPracticeNotFound))
		case errors.Is(r.err, getAvailableSlots.ErrInvalidDate):
			s.emit(errorMessage("invalid_date", msgDateInPast))
		case errors.Is(r.err, getAvailableSlots.ErrDateTooFarInFuture):
			s.emit(errorMessage("date_too_far", msgDateTooFar))
		default:
			s.logger.Error("realtime: failed to compute slots for practice=%d date=%s: %v",
				s.practiceID, r.date.Format(domain.DateFormat), r.err)
			s.emit(errorMessage("slots_failed", msgSlotsFailed))
		}
		return
	}

	s.emit(ServerMessage{
		Type: TypeSlots,
		Availability: &Availability{
			PracticeID: s.practiceID,
			Date:       r.resp.Date.Format(domain.DateFormat),
			Open:       r.resp.Open,
			Generation: r.generation,
			Slots:      toSlotPayloads(r.resp.Slots),
			ComputedAt: time.Now().UTC(),
		},
	})
}
