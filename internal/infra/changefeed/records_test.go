package changefeed

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
)

func TestAppointmentEvent(t *testing.T) {
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	ev, err := AppointmentEvent(EventInsert, &domain.Appointment{
		ID: 42, PracticeID: 7, PatientID: 3, AppointmentDate: at, Status: domain.StatusPending,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.CollectionAppointments, ev.Collection)
	assert.True(t, Filter{KeyPracticeID: 7}.Matches(ev))
	assert.True(t, Filter{KeyPatientID: 3}.Matches(ev))

	var rec AppointmentRecord
	require.NoError(t, json.Unmarshal(ev.Record, &rec))
	assert.Equal(t, "pending", rec.Status)
	assert.True(t, at.Equal(rec.AppointmentDate))
}

func TestWaitTimeEvent(t *testing.T) {
	ev, err := WaitTimeEvent(&domain.WaitTime{PracticeID: 7, CurrentWaitMinutes: 45})
	require.NoError(t, err)

	var rec WaitTimeRecord
	require.NoError(t, json.Unmarshal(ev.Record, &rec))
	assert.Equal(t, "long", rec.Tier)
	assert.Equal(t, EventUpdate, ev.Type)
}

func TestSessionEvent(t *testing.T) {
	in, err := SessionEvent(3, "s1", SessionSignedIn)
	require.NoError(t, err)
	out, err := SessionEvent(3, "s1", SessionSignedOut)
	require.NoError(t, err)

	assert.Equal(t, EventInsert, in.Type)
	assert.Equal(t, EventUpdate, out.Type)
	assert.True(t, Filter{KeyUserID: 3}.Matches(out))
}
