package changefeed

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MediTime-BookingService/pkg/logger"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type fakeRelay struct {
	published []Event
	err       error
}

func (r *fakeRelay) Publish(_ context.Context, ev Event) error {
	r.published = append(r.published, ev)
	return r.err
}

func waitTimeEvent(practiceID int64) Event {
	return Event{
		Collection: "wait_times",
		Type:       EventUpdate,
		RecordID:   practiceID,
		Keys:       map[string]int64{"practice_id": practiceID},
	}
}

func TestFeed_SubscribeWithFilter(t *testing.T) {
	feed := New(logger.NewNop(), nil)
	all := &recorder{}
	only7 := &recorder{}

	feed.Subscribe("wait_times", nil, all.handle)
	feed.Subscribe("wait_times", Filter{"practice_id": 7}, only7.handle)

	require.NoError(t, feed.Publish(context.Background(), waitTimeEvent(7)))
	require.NoError(t, feed.Publish(context.Background(), waitTimeEvent(8)))

	assert.Equal(t, 2, all.count())
	assert.Equal(t, 1, only7.count())
	assert.Equal(t, int64(7), only7.events[0].RecordID)
}

func TestFeed_CollectionsAreIsolated(t *testing.T) {
	feed := New(logger.NewNop(), nil)
	rec := &recorder{}
	feed.Subscribe("appointments", nil, rec.handle)

	require.NoError(t, feed.Publish(context.Background(), waitTimeEvent(7)))

	assert.Zero(t, rec.count())
}

func TestFeed_Unsubscribe(t *testing.T) {
	feed := New(logger.NewNop(), nil)
	rec := &recorder{}
	sub := feed.Subscribe("wait_times", nil, rec.handle)
	assert.Equal(t, 1, feed.SubscriberCount("wait_times"))

	feed.Unsubscribe(sub)
	feed.Unsubscribe(sub)
	require.NoError(t, feed.Publish(context.Background(), waitTimeEvent(7)))

	assert.Zero(t, rec.count())
	assert.Zero(t, feed.SubscriberCount("wait_times"))
}

func TestFeed_HandlerPanicDoesNotStopDelivery(t *testing.T) {
	feed := New(logger.NewNop(), nil)
	rec := &recorder{}
	feed.Subscribe("wait_times", nil, func(Event) { panic("boom") })
	feed.Subscribe("wait_times", nil, rec.handle)

	require.NoError(t, feed.Publish(context.Background(), waitTimeEvent(7)))

	assert.Equal(t, 1, rec.count())
}

func TestFeed_PublishValidation(t *testing.T) {
	feed := New(logger.NewNop(), nil)

	assert.ErrorIs(t, feed.Publish(context.Background(), Event{Type: EventInsert}), ErrEmptyCollection)
}

func TestFeed_Relay(t *testing.T) {
	feed := New(logger.NewNop(), nil)
	relay := &fakeRelay{}
	feed.SetRelay(relay)
	rec := &recorder{}
	feed.Subscribe("wait_times", nil, rec.handle)

	require.NoError(t, feed.Publish(context.Background(), waitTimeEvent(7)))
	assert.Len(t, relay.published, 1)
	assert.Equal(t, 1, rec.count())

	relay.err = errors.New("connection refused")
	err := feed.Publish(context.Background(), waitTimeEvent(7))
	assert.ErrorIs(t, err, ErrRelay)
	// локальная доставка не зависит от relay
	assert.Equal(t, 2, rec.count())
}

func TestFilter_Matches(t *testing.T) {
	ev := waitTimeEvent(7)

	assert.True(t, Filter(nil).Matches(ev))
	assert.True(t, Filter{"practice_id": 7}.Matches(ev))
	assert.False(t, Filter{"practice_id": 8}.Matches(ev))
	assert.False(t, Filter{"patient_id": 7}.Matches(ev))
}

func TestNewEvent(t *testing.T) {
	ev, err := NewEvent("wait_times", EventUpdate, 7, map[string]int64{"practice_id": 7}, map[string]int{"current_wait_minutes": 20})

	require.NoError(t, err)
	assert.JSONEq(t, `{"current_wait_minutes":20}`, string(ev.Record))
	assert.False(t, ev.OccurredAt.IsZero())
}
