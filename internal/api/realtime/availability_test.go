package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/infra/changefeed"
	getAvailableSlots "github.com/m04kA/MediTime-BookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/MediTime-BookingService/pkg/logger"
	"github.com/m04kA/MediTime-BookingService/pkg/types"
)

const waitTimeout = 2 * time.Second

// scriptedSlots отвечает сразу, кроме дат из gates: они ждут закрытия канала
type scriptedSlots struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	slots []domain.TimeSlot
	err   error
	calls int
}

func (s *scriptedSlots) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	s.mu.Lock()
	s.calls++
	gate := s.gates[req.Date.Format(domain.DateFormat)]
	slots, err := s.slots, s.err
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &getAvailableSlots.Response{PracticeID: req.PracticeID, Date: req.Date, Open: true, Slots: slots}, nil
}

func (s *scriptedSlots) setSlots(slots []domain.TimeSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = slots
}

func slotsAt(times ...string) []domain.TimeSlot {
	result := make([]domain.TimeSlot, 0, len(times))
	for _, tm := range times {
		result = append(result, domain.TimeSlot{StartTime: types.MustTimeString(tm), DurationMinutes: 30})
	}
	return result
}

func date(s string) time.Time {
	d, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func startSession(t *testing.T, slots SlotsUseCase, feed Feed) (*AvailabilitySession, chan ServerMessage) {
	t.Helper()
	out := make(chan ServerMessage, 16)
	session := NewAvailabilitySession(7, slots, feed, func(m ServerMessage) { out <- m }, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go session.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-session.Done()
	})
	return session, out
}

func next(t *testing.T, out chan ServerMessage) ServerMessage {
	t.Helper()
	select {
	case m := <-out:
		return m
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for message")
		return ServerMessage{}
	}
}

func TestAvailabilitySession_EmitsSlotsForSelectedDate(t *testing.T) {
	slots := &scriptedSlots{slots: slotsAt("08:00", "08:30")}
	session, out := startSession(t, slots, changefeed.New(logger.NewNop(), nil))

	session.SelectDate(context.Background(), date("2026-03-02"))

	msg := next(t, out)
	require.Equal(t, TypeSlots, msg.Type)
	assert.Equal(t, "2026-03-02", msg.Availability.Date)
	assert.Equal(t, uint64(1), msg.Availability.Generation)
	assert.Equal(t, []SlotPayload{{StartTime: "08:00", DurationMinutes: 30}, {StartTime: "08:30", DurationMinutes: 30}}, msg.Availability.Slots)
}

func TestAvailabilitySession_DiscardsStaleGeneration(t *testing.T) {
	gate := make(chan struct{})
	slots := &scriptedSlots{
		gates: map[string]chan struct{}{"2026-03-02": gate},
		slots: slotsAt("09:00"),
	}
	session, out := startSession(t, slots, changefeed.New(logger.NewNop(), nil))

	session.SelectDate(context.Background(), date("2026-03-02"))
	session.SelectDate(context.Background(), date("2026-03-03"))

	msg := next(t, out)
	assert.Equal(t, "2026-03-03", msg.Availability.Date)
	assert.Equal(t, uint64(2), msg.Availability.Generation)

	// результат первого выбора приходит позже и отбрасывается
	close(gate)
	select {
	case m := <-out:
		t.Fatalf("unexpected stale message: %+v", m.Availability)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestAvailabilitySession_RecomputesOnAppointmentChange(t *testing.T) {
	feed := changefeed.New(logger.NewNop(), nil)
	slots := &scriptedSlots{slots: slotsAt("08:00", "08:30")}
	session, out := startSession(t, slots, feed)

	session.SelectDate(context.Background(), date("2026-03-02"))
	first := next(t, out)
	require.Len(t, first.Availability.Slots, 2)

	slots.setSlots(slotsAt("08:30"))
	ev, err := changefeed.AppointmentEvent(changefeed.EventInsert, &domain.Appointment{ID: 1, PracticeID: 7})
	require.NoError(t, err)
	feed.Dispatch(ev)

	second := next(t, out)
	assert.Equal(t, uint64(2), second.Availability.Generation)
	assert.Equal(t, []SlotPayload{{StartTime: "08:30", DurationMinutes: 30}}, second.Availability.Slots)
}

func TestAvailabilitySession_IgnoresOtherPracticesAndNoDate(t *testing.T) {
	feed := changefeed.New(logger.NewNop(), nil)
	slots := &scriptedSlots{slots: slotsAt("08:00")}
	_, out := startSession(t, slots, feed)

	// подписка устанавливается в Run
	require.Eventually(t, func() bool { return feed.SubscriberCount(domain.CollectionAppointments) == 1 }, waitTimeout, 5*time.Millisecond)

	own, err := changefeed.AppointmentEvent(changefeed.EventInsert, &domain.Appointment{ID: 1, PracticeID: 7})
	require.NoError(t, err)
	other, err := changefeed.AppointmentEvent(changefeed.EventInsert, &domain.Appointment{ID: 2, PracticeID: 8})
	require.NoError(t, err)
	feed.Dispatch(own)
	feed.Dispatch(other)

	select {
	case m := <-out:
		t.Fatalf("unexpected message without selected date: %+v", m)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestAvailabilitySession_MapsErrors(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{err: getAvailableSlots.ErrInvalidDate, code: "invalid_date"},
		{err: getAvailableSlots.ErrPracticeNotFound, code: "practice_not_found"},
		{err: getAvailableSlots.ErrDateTooFarInFuture, code: "date_too_far"},
		{err: getAvailableSlots.ErrInternal, code: "slots_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			session, out := startSession(t, &scriptedSlots{err: tt.err}, changefeed.New(logger.NewNop(), nil))

			session.SelectDate(context.Background(), date("2026-03-02"))

			msg := next(t, out)
			assert.Equal(t, TypeError, msg.Type)
			assert.Equal(t, tt.code, msg.Error.Code)
		})
	}
}

func TestAvailabilitySession_UnsubscribesOnStop(t *testing.T) {
	feed := changefeed.New(logger.NewNop(), nil)
	session := NewAvailabilitySession(7, &scriptedSlots{}, feed, func(ServerMessage) {}, logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go session.Run(ctx)

	require.Eventually(t, func() bool { return feed.SubscriberCount(domain.CollectionAppointments) == 1 }, waitTimeout, 5*time.Millisecond)
	cancel()
	<-session.Done()

	assert.Zero(t, feed.SubscriberCount(domain.CollectionAppointments))
}
