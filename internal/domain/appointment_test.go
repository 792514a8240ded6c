package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointment_CanBeCancelled(t *testing.T) {
	for _, status := range AllStatuses {
		a := &Appointment{Status: status}
		want := status == StatusPending || status == StatusConfirmed
		assert.Equal(t, want, a.CanBeCancelled(), string(status))
	}
}

func TestAppointment_IsUpcoming(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	assert.True(t, (&Appointment{Status: StatusPending, AppointmentDate: now.Add(time.Hour)}).IsUpcoming(now))
	assert.False(t, (&Appointment{Status: StatusCancelled, AppointmentDate: now.Add(time.Hour)}).IsUpcoming(now))
	assert.False(t, (&Appointment{Status: StatusConfirmed, AppointmentDate: now.Add(-time.Hour)}).IsUpcoming(now))
}

func TestParseAppointmentStatus(t *testing.T) {
	status, err := ParseAppointmentStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)

	_, err = ParseAppointmentStatus("deleted")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestValidationError(t *testing.T) {
	var err error = NewValidationError("date", "Bitte wählen Sie ein Datum")

	assert.True(t, errors.Is(err, ErrValidation))
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "date", vErr.Field)
}

func TestDayBounds(t *testing.T) {
	at := time.Date(2026, 3, 2, 13, 45, 0, 0, berlin)

	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, berlin), StartOfDay(at))
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, berlin), EndOfDay(at))
}
