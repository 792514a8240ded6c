package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/infra/changefeed"
	profileRepo "github.com/m04kA/MediTime-BookingService/internal/infra/storage/profile"
	sessionRepo "github.com/m04kA/MediTime-BookingService/internal/infra/storage/session"
	"github.com/m04kA/MediTime-BookingService/internal/service/auth/models"
	"github.com/m04kA/MediTime-BookingService/pkg/logger"
)

type memProfiles struct {
	mu     sync.Mutex
	byID   map[int64]*domain.Profile
	nextID int64
	err    error
}

func newMemProfiles() *memProfiles {
	return &memProfiles{byID: map[int64]*domain.Profile{}}
}

func (m *memProfiles) Create(_ context.Context, p *domain.Profile) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, existing := range m.byID {
		if existing.Email == p.Email {
			return nil, profileRepo.ErrEmailTaken
		}
	}
	m.nextID++
	created := *p
	created.ID = m.nextID
	m.byID[created.ID] = &created
	return &created, nil
}

func (m *memProfiles) GetByID(_ context.Context, id int64) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, profileRepo.ErrProfileNotFound
	}
	return p, nil
}

func (m *memProfiles) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.byID {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, profileRepo.ErrProfileNotFound
}

type memSessions struct {
	mu   sync.Mutex
	byID map[string]*domain.Session
}

func newMemSessions() *memSessions {
	return &memSessions{byID: map[string]*domain.Session{}}
}

func (m *memSessions) Create(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *s
	m.byID[s.ID] = &stored
	return nil
}

func (m *memSessions) Get(_ context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *memSessions) Revoke(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return sessionRepo.ErrSessionNotFound
	}
	if s.RevokedAt == nil {
		s.RevokedAt = &at
	}
	return nil
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type fixture struct {
	profiles *memProfiles
	sessions *memSessions
	feed     *changefeed.Feed
	clock    *fixedTime
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		profiles: newMemProfiles(),
		sessions: newMemSessions(),
		feed:     changefeed.New(logger.NewNop(), nil),
		clock:    &fixedTime{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
	}
	f.svc = NewService(
		f.profiles,
		f.sessions,
		f.feed,
		NewPasswordHasher(bcrypt.MinCost),
		NewTokenIssuer("test-secret", "meditime", time.Hour),
		logger.NewNop(),
	).WithTimeProvider(f.clock)
	return f
}

func signUpRequest() *models.SignUpRequest {
	return &models.SignUpRequest{
		Email:    "Anna@Example.de",
		Password: "sehrgeheim",
		FullName: "Anna Schmidt",
	}
}

func assertReason(t *testing.T, err error, want Reason) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)
	reason, ok := ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, want, reason)
}

func TestSignUp_OpensSession(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.SignUp(context.Background(), signUpRequest())

	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "anna@example.de", resp.User.Email)
	assert.Equal(t, "patient", resp.User.Role)
	assert.Equal(t, f.clock.now.Add(time.Hour), resp.ExpiresAt)

	principal, err := f.svc.Authenticate(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, principal.UserID)
	assert.Equal(t, domain.RolePatient, principal.Role)
	assert.NotEmpty(t, principal.SessionID)

	stored, err := f.profiles.GetByID(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "sehrgeheim", stored.PasswordHash)
}

func TestSignUp_DuplicateAccount(t *testing.T) {
	f := newFixture()
	_, err := f.svc.SignUp(context.Background(), signUpRequest())
	require.NoError(t, err)

	_, err = f.svc.SignUp(context.Background(), signUpRequest())

	assertReason(t, err, ReasonDuplicateAccount)
}

func TestSignUp_Validation(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(r *models.SignUpRequest)
		field string
	}{
		{name: "bad email", mod: func(r *models.SignUpRequest) { r.Email = "anna" }, field: "email"},
		{name: "short password", mod: func(r *models.SignUpRequest) { r.Password = "kurz" }, field: "password"},
		{name: "missing name", mod: func(r *models.SignUpRequest) { r.FullName = " " }, field: "fullName"},
		{name: "unknown role", mod: func(r *models.SignUpRequest) { r.Role = "admin" }, field: "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := signUpRequest()
			tt.mod(req)

			_, err := f.svc.SignUp(context.Background(), req)

			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestSignIn(t *testing.T) {
	f := newFixture()
	_, err := f.svc.SignUp(context.Background(), signUpRequest())
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := f.svc.SignIn(context.Background(), &models.SignInRequest{Email: "anna@example.de", Password: "sehrgeheim"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.svc.SignIn(context.Background(), &models.SignInRequest{Email: "anna@example.de", Password: "falsch123"})
		assertReason(t, err, ReasonInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.svc.SignIn(context.Background(), &models.SignInRequest{Email: "max@example.de", Password: "sehrgeheim"})
		assertReason(t, err, ReasonInvalidCredentials)
	})
}

func TestSignIn_StorageFailureIsNetwork(t *testing.T) {
	f := newFixture()
	f.profiles.err = errors.New("connection refused")

	_, err := f.svc.SignIn(context.Background(), &models.SignInRequest{Email: "anna@example.de", Password: "sehrgeheim"})

	assertReason(t, err, ReasonNetwork)
}

func TestSignOut_RevokesAndNotifiesObserver(t *testing.T) {
	f := newFixture()
	resp, err := f.svc.SignUp(context.Background(), signUpRequest())
	require.NoError(t, err)
	principal, err := f.svc.Authenticate(context.Background(), resp.AccessToken)
	require.NoError(t, err)

	var changes []string
	stop := f.svc.ObserveSession(principal.UserID, func(change, sessionID string) {
		assert.Equal(t, principal.SessionID, sessionID)
		changes = append(changes, change)
	})

	require.NoError(t, f.svc.SignOut(context.Background(), principal))

	assert.Equal(t, []string{changefeed.SessionSignedOut}, changes)
	_, err = f.svc.Authenticate(context.Background(), resp.AccessToken)
	assertReason(t, err, ReasonSessionExpired)

	stop()
	assert.Zero(t, f.feed.SubscriberCount(domain.CollectionSessions))
}

func TestObserveSession_IgnoresOtherUsers(t *testing.T) {
	f := newFixture()
	called := false
	stop := f.svc.ObserveSession(42, func(string, string) { called = true })
	defer stop()

	_, err := f.svc.SignUp(context.Background(), signUpRequest())
	require.NoError(t, err)

	assert.False(t, called)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture()
	resp, err := f.svc.SignUp(context.Background(), signUpRequest())
	require.NoError(t, err)

	t.Run("tampered token", func(t *testing.T) {
		_, err := f.svc.Authenticate(context.Background(), resp.AccessToken+"x")
		assertReason(t, err, ReasonInvalidCredentials)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := f.svc.Authenticate(context.Background(), "not-a-token")
		assertReason(t, err, ReasonInvalidCredentials)
	})

	t.Run("foreign secret", func(t *testing.T) {
		other := NewTokenIssuer("other-secret", "meditime", time.Hour)
		token, _, err := other.Issue(&domain.Profile{ID: resp.User.ID, Role: domain.RolePatient}, "s", f.clock.now)
		require.NoError(t, err)

		_, err = f.svc.Authenticate(context.Background(), token)
		assertReason(t, err, ReasonInvalidCredentials)
	})

	t.Run("expired", func(t *testing.T) {
		clock := *f.clock
		f.clock.now = f.clock.now.Add(2 * time.Hour)
		defer func() { *f.clock = clock }()

		_, err := f.svc.Authenticate(context.Background(), resp.AccessToken)
		assertReason(t, err, ReasonSessionExpired)
	})

	t.Run("unknown session", func(t *testing.T) {
		token, _, err := f.svc.tokens.Issue(&domain.Profile{ID: resp.User.ID, Role: domain.RolePatient}, "missing", f.clock.now)
		require.NoError(t, err)

		_, err = f.svc.Authenticate(context.Background(), token)
		assertReason(t, err, ReasonSessionExpired)
	})
}

func TestAuthError_Message(t *testing.T) {
	err := newAuthError(ReasonNetwork, errors.New("dial tcp"))
	assert.True(t, strings.HasPrefix(err.Error(), "auth error: network"))
}
