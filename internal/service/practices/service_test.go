package practices

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
	practiceRepo "github.com/m04kA/MediTime-BookingService/internal/infra/storage/practice"
	"github.com/m04kA/MediTime-BookingService/internal/service/practices/models"
	"github.com/m04kA/MediTime-BookingService/pkg/logger"
	"github.com/m04kA/MediTime-BookingService/pkg/ptr"
	"github.com/m04kA/MediTime-BookingService/pkg/types"
)

type mockPracticeRepo struct {
	mock.Mock
}

func (m *mockPracticeRepo) Create(ctx context.Context, p *domain.Practice) (*domain.Practice, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Practice), args.Error(1)
}

func (m *mockPracticeRepo) GetByID(ctx context.Context, id int64) (*domain.Practice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Practice), args.Error(1)
}

func (m *mockPracticeRepo) GetByOwner(ctx context.Context, ownerID int64) (*domain.Practice, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Practice), args.Error(1)
}

func (m *mockPracticeRepo) List(ctx context.Context, filter domain.PracticeFilter) ([]*domain.Practice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Practice), args.Error(1)
}

func (m *mockPracticeRepo) Update(ctx context.Context, p *domain.Practice) (*domain.Practice, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Practice), args.Error(1)
}

func (m *mockPracticeRepo) UpsertWaitTime(ctx context.Context, practiceID int64, minutes int) (*domain.WaitTime, error) {
	args := m.Called(ctx, practiceID, minutes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WaitTime), args.Error(1)
}

func (m *mockPracticeRepo) GetWaitTime(ctx context.Context, practiceID int64) (*domain.WaitTime, error) {
	args := m.Called(ctx, practiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WaitTime), args.Error(1)
}

func (m *mockPracticeRepo) ListWaitTimes(ctx context.Context, practiceIDs []int64) (map[int64]*domain.WaitTime, error) {
	args := m.Called(ctx, practiceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]*domain.WaitTime), args.Error(1)
}

type fakePublisher struct {
	events []changefeed.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, ev changefeed.Event) error {
	p.events = append(p.events, ev)
	return p.err
}

type fakeMetrics struct {
	waitTimeUpdates int
}

func (m *fakeMetrics) IncWaitTimeUpdates() {
	m.waitTimeUpdates++
}

func newTestService() (*Service, *mockPracticeRepo, *fakePublisher, *fakeMetrics) {
	repo := &mockPracticeRepo{}
	pub := &fakePublisher{}
	m := &fakeMetrics{}
	return NewService(repo, pub, m, logger.NewNop()), repo, pub, m
}

func TestList_EnrichesWithWaitTimes(t *testing.T) {
	svc, repo, _, _ := newTestService()
	filter := domain.PracticeFilter{Search: ptr.Ptr("berlin")}
	repo.On("List", mock.Anything, filter).Return([]*domain.Practice{
		{ID: 1, Name: "Augenarzt Mitte"},
		{ID: 2, Name: "Hausarzt Nord"},
	}, nil)
	repo.On("ListWaitTimes", mock.Anything, []int64{1, 2}).Return(map[int64]*domain.WaitTime{
		1: {PracticeID: 1, CurrentWaitMinutes: 45},
	}, nil)

	resp, err := svc.List(context.Background(), &models.ListRequest{Search: ptr.Ptr("berlin")})

	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)
	require.NotNil(t, resp.Practices[0].WaitTime)
	assert.Equal(t, "long", resp.Practices[0].WaitTime.Tier)
	assert.Equal(t, "Lange Wartezeit", resp.Practices[0].WaitTime.Label)
	assert.Equal(t, "#ef4444", resp.Practices[0].WaitTime.Color)
	assert.Nil(t, resp.Practices[1].WaitTime)
}

func TestList_EmptySkipsWaitTimes(t *testing.T) {
	svc, repo, _, _ := newTestService()
	repo.On("List", mock.Anything, domain.PracticeFilter{}).Return([]*domain.Practice{}, nil)

	resp, err := svc.List(context.Background(), &models.ListRequest{})

	require.NoError(t, err)
	assert.Empty(t, resp.Practices)
	repo.AssertNotCalled(t, "ListWaitTimes", mock.Anything, mock.Anything)
}

func TestList_UnknownSpecialty(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.List(context.Background(), &models.ListRequest{Specialty: ptr.Ptr("Astrologie")})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGet(t *testing.T) {
	t.Run("without wait time", func(t *testing.T) {
		svc, repo, _, _ := newTestService()
		repo.On("GetByID", mock.Anything, int64(7)).Return(&domain.Practice{ID: 7, Name: "Praxis"}, nil)
		repo.On("GetWaitTime", mock.Anything, int64(7)).Return(nil, practiceRepo.ErrWaitTimeNotFound)

		resp, err := svc.Get(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, "Praxis", resp.Name)
		assert.Nil(t, resp.WaitTime)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo, _, _ := newTestService()
		repo.On("GetByID", mock.Anything, int64(7)).Return(nil, practiceRepo.ErrPracticeNotFound)

		_, err := svc.Get(context.Background(), 7)

		assert.ErrorIs(t, err, ErrPracticeNotFound)
	})
}

func TestGetOrCreateMine(t *testing.T) {
	t.Run("patient is denied", func(t *testing.T) {
		svc, repo, _, _ := newTestService()

		_, err := svc.GetOrCreateMine(context.Background(), 3, domain.RolePatient)

		assert.ErrorIs(t, err, ErrAccessDenied)
		repo.AssertNotCalled(t, "GetByOwner", mock.Anything, mock.Anything)
	})

	t.Run("existing practice", func(t *testing.T) {
		svc, repo, pub, _ := newTestService()
		repo.On("GetByOwner", mock.Anything, int64(2)).Return(&domain.Practice{ID: 7, OwnerID: 2, Name: "Praxis Weber"}, nil)
		repo.On("GetWaitTime", mock.Anything, int64(7)).Return(&domain.WaitTime{PracticeID: 7, CurrentWaitMinutes: 10}, nil)

		resp, err := svc.GetOrCreateMine(context.Background(), 2, domain.RolePractice)

		require.NoError(t, err)
		assert.Equal(t, "Praxis Weber", resp.Name)
		assert.Equal(t, "short", resp.WaitTime.Tier)
		assert.Empty(t, pub.events)
	})

	t.Run("creates default practice", func(t *testing.T) {
		svc, repo, pub, _ := newTestService()
		repo.On("GetByOwner", mock.Anything, int64(2)).Return(nil, practiceRepo.ErrPracticeNotFound)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Practice) bool {
			return p.OwnerID == 2 && p.Name == "Neue Praxis" && p.Specialty == "Allgemeinmedizin"
		})).Return(&domain.Practice{ID: 8, OwnerID: 2, Name: "Neue Praxis", Specialty: "Allgemeinmedizin"}, nil)
		repo.On("GetWaitTime", mock.Anything, int64(8)).Return(nil, practiceRepo.ErrWaitTimeNotFound)

		resp, err := svc.GetOrCreateMine(context.Background(), 2, domain.RolePractice)

		require.NoError(t, err)
		assert.Equal(t, int64(8), resp.ID)
		require.Len(t, pub.events, 1)
		assert.Equal(t, changefeed.EventInsert, pub.events[0].Type)
	})
}

func TestUpdate(t *testing.T) {
	hours := domain.OpeningHours{
		"monday": {Open: types.MustTimeString("08:00"), Close: types.MustTimeString("12:00")},
	}

	t.Run("owner updates", func(t *testing.T) {
		svc, repo, pub, _ := newTestService()
		repo.On("GetByID", mock.Anything, int64(7)).Return(&domain.Practice{ID: 7, OwnerID: 2, Name: "Alt", City: "Berlin"}, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Practice) bool {
			return p.Name == "Neu" && p.City == "Berlin" && len(p.OpeningHours) == 1
		})).Return(&domain.Practice{ID: 7, OwnerID: 2, Name: "Neu", City: "Berlin", OpeningHours: hours}, nil)
		repo.On("GetWaitTime", mock.Anything, int64(7)).Return(nil, practiceRepo.ErrWaitTimeNotFound)

		resp, err := svc.Update(context.Background(), 7, &models.UpdatePracticeRequest{
			UserID: 2, Name: ptr.Ptr("  Neu "), OpeningHours: &hours,
		})

		require.NoError(t, err)
		assert.Equal(t, "Neu", resp.Name)
		require.Len(t, pub.events, 1)
		assert.Equal(t, domain.CollectionPractices, pub.events[0].Collection)
	})

	t.Run("not the owner", func(t *testing.T) {
		svc, repo, _, _ := newTestService()
		repo.On("GetByID", mock.Anything, int64(7)).Return(&domain.Practice{ID: 7, OwnerID: 2}, nil)

		_, err := svc.Update(context.Background(), 7, &models.UpdatePracticeRequest{UserID: 5, Name: ptr.Ptr("X")})

		assert.ErrorIs(t, err, ErrAccessDenied)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("close before open", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		bad := domain.OpeningHours{
			"monday": {Open: types.MustTimeString("12:00"), Close: types.MustTimeString("08:00")},
		}

		_, err := svc.Update(context.Background(), 7, &models.UpdatePracticeRequest{UserID: 2, OpeningHours: &bad})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("empty name", func(t *testing.T) {
		svc, _, _, _ := newTestService()

		_, err := svc.Update(context.Background(), 7, &models.UpdatePracticeRequest{UserID: 2, Name: ptr.Ptr("   ")})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestUpdateWaitTime(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		userID  int64
		wantErr error
	}{
		{name: "zero is allowed", minutes: 0, userID: 2},
		{name: "medium", minutes: 20, userID: 2},
		{name: "negative", minutes: -1, userID: 2, wantErr: ErrInvalidInput},
		{name: "too large", minutes: 601, userID: 2, wantErr: ErrInvalidInput},
		{name: "not the owner", minutes: 10, userID: 9, wantErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, pub, m := newTestService()
			repo.On("GetByID", mock.Anything, int64(7)).Return(&domain.Practice{ID: 7, OwnerID: 2}, nil)
			repo.On("UpsertWaitTime", mock.Anything, int64(7), tt.minutes).
				Return(&domain.WaitTime{PracticeID: 7, CurrentWaitMinutes: tt.minutes, UpdatedAt: time.Now()}, nil)

			resp, err := svc.UpdateWaitTime(context.Background(), 7, &models.UpdateWaitTimeRequest{UserID: tt.userID, Minutes: tt.minutes})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, m.waitTimeUpdates)
				assert.Empty(t, pub.events)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.minutes, resp.Minutes)
			assert.Equal(t, string(domain.ClassifyWaitTime(tt.minutes)), resp.Tier)
			assert.Equal(t, 1, m.waitTimeUpdates)
			require.Len(t, pub.events, 1)
			assert.Equal(t, domain.CollectionWaitTimes, pub.events[0].Collection)
		})
	}
}

func TestUpdateWaitTime_PublishFailureIsNotFatal(t *testing.T) {
	svc, repo, pub, _ := newTestService()
	pub.err = errors.New("redis down")
	repo.On("GetByID", mock.Anything, int64(7)).Return(&domain.Practice{ID: 7, OwnerID: 2}, nil)
	repo.On("UpsertWaitTime", mock.Anything, int64(7), 5).Return(&domain.WaitTime{PracticeID: 7, CurrentWaitMinutes: 5}, nil)

	_, err := svc.UpdateWaitTime(context.Background(), 7, &models.UpdateWaitTimeRequest{UserID: 2, Minutes: 5})

	assert.NoError(t, err)
}
