package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/auth"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// UsernameTakenMessage is the field error for a registered username
const UsernameTakenMessage = "A user with that username already exists."

// AuthService handles account registration and authentication
type AuthService interface {
	Signup(ctx context.Context, form dto.SignupForm) (*dto.AuthSession, error)
	Login(ctx context.Context, form dto.LoginForm) (*dto.AuthSession, error)
	CreateAccount(ctx context.Context, username, password string) (*models.User, error)
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
	Logout(ctx context.Context) error
	PruneSessions(ctx context.Context) (int64, error)
}

type authServiceImpl struct {
	userRepo    repositories.IUserRepository
	sessionRepo repositories.ISessionRepository
	jwtService  *auth.JWTService
	logger      zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new auth service instance
func NewAuthService(
	userRepo repositories.IUserRepository,
	sessionRepo repositories.ISessionRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtService:  jwtService,
		logger:      logger,
	}
}

func usernameTaken() validation.Errors {
	var errs validation.Errors
	errs.Add("username", UsernameTakenMessage)
	return errs
}

// CreateAccount stores a new account with a bcrypt hash of password
func (s *authServiceImpl) CreateAccount(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Username: username, PasswordHash: hash}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Signup registers an account and opens a session for it
func (s *authServiceImpl) Signup(ctx context.Context, form dto.SignupForm) (*dto.AuthSession, error) {
	form.Username = strings.TrimSpace(form.Username)

	errs := form.Validate()
	if !errs.Has("username") {
		exists, err := s.userRepo.UsernameExists(ctx, form.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			errs.Add("username", UsernameTakenMessage)
		}
	}
	if errs.HasErrors() {
		return nil, errs
	}

	user, err := s.CreateAccount(ctx, form.Username, form.Password1)
	if err != nil {
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			return nil, usernameTaken()
		}
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("username", user.Username).Msg("Account created")
	return s.openSession(ctx, user)
}

// Login checks the credentials. Unknown usernames and wrong passwords
// produce the same apperrors.ErrInvalidCredentials.
func (s *authServiceImpl) Login(ctx context.Context, form dto.LoginForm) (*dto.AuthSession, error) {
	if errs := form.Validate(); errs.HasErrors() {
		return nil, errs
	}
	username := strings.TrimSpace(form.Username)

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// spend the same bcrypt time as a real comparison
			auth.CheckPassword(s.placeholderHash(), form.Password)
			s.logger.Warn().Str("username", username).Msg("Login attempt for unknown user")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, form.Password) {
		s.logger.Warn().Int64("userID", user.ID).Msg("Login attempt with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to update last login")
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User logged in")
	return s.openSession(ctx, user)
}

// Authenticate resolves a session cookie value to its identity. The token must
// carry a valid signature and name a session that has not been ended or expired.
func (s *authServiceImpl) Authenticate(ctx context.Context, token string) (auth.Identity, error) {
	id, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return auth.Identity{}, err
	}

	session, err := s.sessionRepo.GetByTokenID(ctx, id.SessionID)
	if err != nil {
		return auth.Identity{}, err
	}
	if session.UserID != id.UserID {
		s.logger.Warn().Int64("userID", id.UserID).Str("sessionID", id.SessionID).Msg("Session token names another account")
		return auth.Identity{}, apperrors.ErrTokenInvalid
	}

	return id, nil
}

// Logout ends the session of the identity carried by ctx.
// Anonymous requests and already removed sessions are a no-op.
func (s *authServiceImpl) Logout(ctx context.Context) error {
	id := auth.IdentityFromContext(ctx)
	if !id.Authenticated() || id.SessionID == "" {
		return nil
	}

	if err := s.sessionRepo.Revoke(ctx, id.SessionID); err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("failed to end session: %w", err)
	}

	s.logger.Info().Int64("userID", id.UserID).Str("sessionID", id.SessionID).Msg("Session ended")
	return nil
}

// PruneSessions deletes expired and long-revoked sessions
func (s *authServiceImpl) PruneSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.CleanupExpired(ctx)
}

func (s *authServiceImpl) openSession(ctx context.Context, user *models.User) (*dto.AuthSession, error) {
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &models.Session{TokenID: token.ID, UserID: user.ID, ExpiresAt: token.ExpiresAt}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &dto.AuthSession{User: user, Token: token.Value, ExpiresAt: token.ExpiresAt}, nil
}

func (s *authServiceImpl) placeholderHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = auth.HashPassword("placeholder-password")
	})
	return s.dummyHash
}
