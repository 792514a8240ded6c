package auth

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/infra/changefeed"
	profileRepo "github.com/m04kA/MediTime-BookingService/internal/infra/storage/profile"
	sessionRepo "github.com/m04kA/MediTime-BookingService/internal/infra/storage/session"
	"github.com/m04kA/MediTime-BookingService/internal/service/auth/models"
)

const tokenTypeBearer = "Bearer"

// Service локальный провайдер аутентификации: профили, bcrypt и JWT-сессии
type Service struct {
	profileRepo  ProfileRepository
	sessionRepo  SessionRepository
	feed         ChangeFeed
	hasher       *PasswordHasher
	tokens       *TokenIssuer
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает сервис аутентификации
func NewService(
	profileRepo ProfileRepository,
	sessionRepo SessionRepository,
	feed ChangeFeed,
	hasher *PasswordHasher,
	tokens *TokenIssuer,
	logger Logger,
) *Service {
	return &Service{
		profileRepo:  profileRepo,
		sessionRepo:  sessionRepo,
		feed:         feed,
		hasher:       hasher,
		tokens:       tokens,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider устанавливает провайдер времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// SignUp регистрирует пользователя и сразу открывает сессию
func (s *Service) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.SessionResponse, error) {
	// 1. Валидируем данные
	profile, err := validateSignUp(req)
	if err != nil {
		s.logger.Warn("SignUp: validation failed: %v", err)
		return nil, err
	}
	s.logger.Info("SignUp: registering %s with role=%s", profile.Email, profile.Role)

	// 2. Хешируем пароль
	profile.PasswordHash, err = s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("SignUp: %v", err)
		return nil, newAuthError(ReasonNetwork, err)
	}

	// 3. Создаем профиль
	created, err := s.profileRepo.Create(ctx, profile)
	if err != nil {
		if errors.Is(err, profileRepo.ErrEmailTaken) {
			s.logger.Warn("SignUp: email %s already registered", profile.Email)
			return nil, newAuthError(ReasonDuplicateAccount, nil)
		}
		s.logger.Error("SignUp: repository error: %v", err)
		return nil, newAuthError(ReasonNetwork, err)
	}

	// 4. Открываем сессию
	return s.openSession(ctx, "SignUp", created)
}

// SignIn проверяет email и пароль и открывает сессию
func (s *Service) SignIn(ctx context.Context, req *models.SignInRequest) (*models.SessionResponse, error) {
	email, err := validateSignIn(req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("SignIn: %s", email)

	profile, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, profileRepo.ErrProfileNotFound) {
			s.logger.Warn("SignIn: unknown email %s", email)
			return nil, newAuthError(ReasonInvalidCredentials, nil)
		}
		s.logger.Error("SignIn: repository error: %v", err)
		return nil, newAuthError(ReasonNetwork, err)
	}

	ok, err := s.hasher.Verify(profile.PasswordHash, req.Password)
	if err != nil {
		s.logger.Error("SignIn: %v", err)
		return nil, newAuthError(ReasonInvalidCredentials, err)
	}
	if !ok {
		s.logger.Warn("SignIn: wrong password for user=%d", profile.ID)
		return nil, newAuthError(ReasonInvalidCredentials, nil)
	}

	return s.openSession(ctx, "SignIn", profile)
}

// SignOut отзывает сессию, токен перестает проходить Authenticate
func (s *Service) SignOut(ctx context.Context, principal *domain.Principal) error {
	s.logger.Info("SignOut: user=%d, session=%s", principal.UserID, principal.SessionID)

	if err := s.sessionRepo.Revoke(ctx, principal.SessionID, s.timeProvider.Now()); err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return newAuthError(ReasonSessionExpired, nil)
		}
		s.logger.Error("SignOut: repository error: %v", err)
		return newAuthError(ReasonNetwork, err)
	}

	s.publish(ctx, "SignOut", principal.UserID, principal.SessionID, changefeed.SessionSignedOut)
	return nil
}

// Authenticate проверяет токен и серверную сессию
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	now := s.timeProvider.Now()

	claims, err := s.tokens.Parse(token, now)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, newAuthError(ReasonSessionExpired, nil)
		}
		return nil, newAuthError(ReasonInvalidCredentials, err)
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, newAuthError(ReasonInvalidCredentials, err)
	}

	session, err := s.sessionRepo.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, newAuthError(ReasonSessionExpired, nil)
		}
		s.logger.Error("Authenticate: repository error: %v", err)
		return nil, newAuthError(ReasonNetwork, err)
	}
	if session.UserID != userID || !session.IsActive(now) {
		return nil, newAuthError(ReasonSessionExpired, nil)
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, newAuthError(ReasonInvalidCredentials, err)
	}

	return &domain.Principal{
		UserID:    userID,
		SessionID: session.ID,
		Role:      role,
		Email:     claims.Email,
	}, nil
}

// CurrentUser данные пользователя текущей сессии
func (s *Service) CurrentUser(ctx context.Context, principal *domain.Principal) (*models.UserResponse, error) {
	profile, err := s.profileRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrProfileNotFound) {
			return nil, newAuthError(ReasonSessionExpired, nil)
		}
		s.logger.Error("CurrentUser: repository error: %v", err)
		return nil, newAuthError(ReasonNetwork, err)
	}
	user := models.FromDomainProfile(profile)
	return &user, nil
}

// ObserveSession вызывает callback при входе или выходе пользователя.
// Возвращает функцию отписки.
func (s *Service) ObserveSession(userID int64, callback func(change, sessionID string)) func() {
	sub := s.feed.Subscribe(domain.CollectionSessions, changefeed.Filter{changefeed.KeyUserID: userID}, func(ev changefeed.Event) {
		var record changefeed.SessionRecord
		if err := json.Unmarshal(ev.Record, &record); err != nil {
			s.logger.Warn("ObserveSession: bad session record for user=%d: %v", userID, err)
			return
		}
		callback(record.Change, record.SessionID)
	})
	return func() { s.feed.Unsubscribe(sub) }
}

func (s *Service) openSession(ctx context.Context, op string, profile *domain.Profile) (*models.SessionResponse, error) {
	now := s.timeProvider.Now()
	sessionID := uuid.NewString()

	token, expiresAt, err := s.tokens.Issue(profile, sessionID, now)
	if err != nil {
		s.logger.Error("%s: %v", op, err)
		return nil, newAuthError(ReasonNetwork, err)
	}

	if err := s.sessionRepo.Create(ctx, &domain.Session{
		ID:        sessionID,
		UserID:    profile.ID,
		ExpiresAt: expiresAt,
	}); err != nil {
		s.logger.Error("%s: failed to create session for user=%d: %v", op, profile.ID, err)
		return nil, newAuthError(ReasonNetwork, err)
	}

	s.publish(ctx, op, profile.ID, sessionID, changefeed.SessionSignedIn)

	s.logger.Info("%s: session opened for user=%d", op, profile.ID)
	return &models.SessionResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresAt:   expiresAt,
		User:        models.FromDomainProfile(profile),
	}, nil
}

func (s *Service) publish(ctx context.Context, op string, userID int64, sessionID, change string) {
	ev, err := changefeed.SessionEvent(userID, sessionID, change)
	if err != nil {
		s.logger.Error("%s: failed to build session event: %v", op, err)
		return
	}
	if err := s.feed.Publish(ctx, ev); err != nil {
		s.logger.Warn("%s: failed to publish session event for user=%d: %v", op, userID, err)
	}
}
