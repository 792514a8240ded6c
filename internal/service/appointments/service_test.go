package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/infra/changefeed"
	appointmentRepo "github.com/m04kA/MediTime-BookingService/internal/infra/storage/appointment"
	"github.com/m04kA/MediTime-BookingService/internal/service/appointments/models"
	"github.com/m04kA/MediTime-BookingService/pkg/logger"
)

var berlin = time.FixedZone("CET", 3600)

type mockAppointmentRepo struct {
	mock.Mock
}

func (m *mockAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) GetByPatient(ctx context.Context, filter domain.PatientAppointmentsFilter) ([]*domain.AppointmentWithPractice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AppointmentWithPractice), args.Error(1)
}

func (m *mockAppointmentRepo) GetByPracticeAndDay(ctx context.Context, practiceID int64, dayStart, dayEnd time.Time) ([]*domain.AppointmentWithPatient, error) {
	args := m.Called(ctx, practiceID, dayStart, dayEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AppointmentWithPatient), args.Error(1)
}

func (m *mockAppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) (*domain.Appointment, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

type mockPracticeRepo struct {
	mock.Mock
}

func (m *mockPracticeRepo) GetByID(ctx context.Context, id int64) (*domain.Practice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Practice), args.Error(1)
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePublisher struct {
	events []changefeed.Event
}

func (p *fakePublisher) Publish(_ context.Context, ev changefeed.Event) error {
	p.events = append(p.events, ev)
	return nil
}

type fakeMetrics struct {
	cancelled map[string]int
}

func (m *fakeMetrics) IncAppointmentsCancelled(by string) {
	if m.cancelled == nil {
		m.cancelled = map[string]int{}
	}
	m.cancelled[by]++
}

type fixture struct {
	appointments *mockAppointmentRepo
	practices    *mockPracticeRepo
	publisher    *fakePublisher
	metrics      *fakeMetrics
	svc          *Service
}

func newFixture() *fixture {
	f := &fixture{
		appointments: &mockAppointmentRepo{},
		practices:    &mockPracticeRepo{},
		publisher:    &fakePublisher{},
		metrics:      &fakeMetrics{},
	}
	f.svc = NewService(f.appointments, f.practices, passthroughTx{}, f.publisher, f.metrics, berlin, logger.NewNop())
	return f
}

func TestGetPatientAppointments(t *testing.T) {
	f := newFixture()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, berlin)
	f.svc.now = func() time.Time { return now }
	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	f.appointments.On("GetByPatient", mock.Anything, domain.PatientAppointmentsFilter{
		PatientID: 3, Scope: domain.ScopeUpcoming, Now: now,
	}).Return([]*domain.AppointmentWithPractice{{
		Appointment:  domain.Appointment{ID: 1, PracticeID: 7, PatientID: 3, AppointmentDate: at, Status: domain.StatusConfirmed},
		PracticeName: "Praxis Dr. Weber",
	}}, nil)

	resp, err := f.svc.GetPatientAppointments(context.Background(), &models.GetPatientAppointmentsRequest{PatientID: 3})

	require.NoError(t, err)
	assert.Equal(t, "upcoming", resp.Scope)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, "09:00", resp.Appointments[0].Time)
	assert.Equal(t, "2026-03-02", resp.Appointments[0].Date)
	assert.Equal(t, "Bestätigt", resp.Appointments[0].StatusLabel)
	assert.True(t, resp.Appointments[0].CanBeCancelled)
	assert.Equal(t, "Praxis Dr. Weber", resp.Appointments[0].Practice.Name)
}

func TestGetPatientAppointments_InvalidScope(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetPatientAppointments(context.Background(), &models.GetPatientAppointmentsRequest{PatientID: 3, Scope: "all"})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name    string
		current *domain.Appointment
		getErr  error
		wantErr error
	}{
		{name: "pending is cancelled", current: &domain.Appointment{ID: 9, PatientID: 3, Status: domain.StatusPending}},
		{name: "confirmed is cancelled", current: &domain.Appointment{ID: 9, PatientID: 3, Status: domain.StatusConfirmed}},
		{name: "completed cannot be cancelled", current: &domain.Appointment{ID: 9, PatientID: 3, Status: domain.StatusCompleted}, wantErr: ErrCannotCancel},
		{name: "already cancelled", current: &domain.Appointment{ID: 9, PatientID: 3, Status: domain.StatusCancelled}, wantErr: ErrCannotCancel},
		{name: "foreign appointment", current: &domain.Appointment{ID: 9, PatientID: 4, Status: domain.StatusPending}, wantErr: ErrAccessDenied},
		{name: "not found", getErr: appointmentRepo.ErrAppointmentNotFound, wantErr: ErrAppointmentNotFound},
		{name: "storage failure", getErr: errors.New("timeout"), wantErr: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.getErr != nil {
				f.appointments.On("GetByID", mock.Anything, int64(9)).Return(nil, tt.getErr)
			} else {
				f.appointments.On("GetByID", mock.Anything, int64(9)).Return(tt.current, nil)
			}
			cancelled := &domain.Appointment{ID: 9, PatientID: 3, PracticeID: 7, Status: domain.StatusCancelled}
			f.appointments.On("UpdateStatus", mock.Anything, int64(9), domain.StatusCancelled).Return(cancelled, nil)

			resp, err := f.svc.Cancel(context.Background(), 9, &models.CancelRequest{PatientID: 3})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.publisher.events)
				f.appointments.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "cancelled", resp.Status)
			assert.False(t, resp.CanBeCancelled)
			assert.Equal(t, 1, f.metrics.cancelled["patient"])
			require.Len(t, f.publisher.events, 1)
			assert.Equal(t, changefeed.EventUpdate, f.publisher.events[0].Type)
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	t.Run("owner confirms", func(t *testing.T) {
		f := newFixture()
		f.appointments.On("GetByID", mock.Anything, int64(9)).Return(&domain.Appointment{ID: 9, PracticeID: 7, Status: domain.StatusPending}, nil)
		f.practices.On("GetByID", mock.Anything, int64(7)).Return(&domain.Practice{ID: 7, OwnerID: 2}, nil)
		f.appointments.On("UpdateStatus", mock.Anything, int64(9), domain.StatusConfirmed).
			Return(&domain.Appointment{ID: 9, PracticeID: 7, Status: domain.StatusConfirmed}, nil)

		resp, err := f.svc.UpdateStatus(context.Background(), 9, &models.UpdateStatusRequest{UserID: 2, Status: "confirmed"})

		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)
		assert.Empty(t, f.metrics.cancelled)
		assert.Len(t, f.publisher.events, 1)
	})

	t.Run("owner cancels", func(t *testing.T) {
		f := newFixture()
		f.appointments.On("GetByID", mock.Anything, int64(9)).Return(&domain.Appointment{ID: 9, PracticeID: 7, Status: domain.StatusPending}, nil)
		f.practices.On("GetByID", mock.Anything, int64(7)).Return(&domain.Practice{ID: 7, OwnerID: 2}, nil)
		f.appointments.On("UpdateStatus", mock.Anything, int64(9), domain.StatusCancelled).
			Return(&domain.Appointment{ID: 9, PracticeID: 7, Status: domain.StatusCancelled}, nil)

		_, err := f.svc.UpdateStatus(context.Background(), 9, &models.UpdateStatusRequest{UserID: 2, Status: "cancelled"})

		require.NoError(t, err)
		assert.Equal(t, 1, f.metrics.cancelled["practice"])
	})

	t.Run("not the owner", func(t *testing.T) {
		f := newFixture()
		f.appointments.On("GetByID", mock.Anything, int64(9)).Return(&domain.Appointment{ID: 9, PracticeID: 7}, nil)
		f.practices.On("GetByID", mock.Anything, int64(7)).Return(&domain.Practice{ID: 7, OwnerID: 2}, nil)

		_, err := f.svc.UpdateStatus(context.Background(), 9, &models.UpdateStatusRequest{UserID: 5, Status: "confirmed"})

		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("invalid status", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.UpdateStatus(context.Background(), 9, &models.UpdateStatusRequest{UserID: 2, Status: "archived"})

		assert.ErrorIs(t, err, ErrInvalidInput)
		f.appointments.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("reactivation on a taken slot", func(t *testing.T) {
		f := newFixture()
		f.appointments.On("GetByID", mock.Anything, int64(9)).Return(&domain.Appointment{ID: 9, PracticeID: 7, Status: domain.StatusCancelled}, nil)
		f.practices.On("GetByID", mock.Anything, int64(7)).Return(&domain.Practice{ID: 7, OwnerID: 2}, nil)
		f.appointments.On("UpdateStatus", mock.Anything, int64(9), domain.StatusConfirmed).Return(nil, appointmentRepo.ErrSlotTaken)

		_, err := f.svc.UpdateStatus(context.Background(), 9, &models.UpdateStatusRequest{UserID: 2, Status: "confirmed"})

		assert.ErrorIs(t, err, ErrSlotTaken)
	})
}

func TestGetPracticeAppointments(t *testing.T) {
	f := newFixture()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, berlin)
	f.practices.On("GetByID", mock.Anything, int64(7)).Return(&domain.Practice{ID: 7, OwnerID: 2}, nil)
	f.appointments.On("GetByPracticeAndDay", mock.Anything, int64(7), day, day.AddDate(0, 0, 1)).
		Return([]*domain.AppointmentWithPatient{{
			Appointment: domain.Appointment{ID: 1, AppointmentDate: day.Add(10 * time.Hour), Status: domain.StatusPending},
			PatientName: "Anna Schmidt",
		}}, nil)

	resp, err := f.svc.GetPracticeAppointments(context.Background(), &models.GetPracticeAppointmentsRequest{
		UserID: 2, PracticeID: 7, Date: day,
	})

	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", resp.Date)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, "Anna Schmidt", resp.Appointments[0].Patient.FullName)
	assert.Equal(t, "10:00", resp.Appointments[0].Time)
}
