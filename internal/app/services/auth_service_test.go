package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/auth"
)

func TestSignupOpensSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	session, err := f.authService.Signup(ctx, dto.SignupForm{Username: " registrar ", Password1: "s3cret-pass", Password2: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "registrar", session.User.Username)
	assert.NotEqual(t, "s3cret-pass", session.User.PasswordHash)

	identity, err := f.jwt.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, identity.UserID)
	assert.Equal(t, "registrar", identity.Username)

	authenticated, err := f.authService.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, identity, authenticated)
	assert.Contains(t, f.db.sessions, identity.SessionID)

	_, err = f.authService.Signup(ctx, dto.SignupForm{Username: "registrar", Password1: "another-pass", Password2: "another-pass"})
	requireFieldError(t, err, "username", UsernameTakenMessage)
}

func TestSignupValidation(t *testing.T) {
	f := newFixture()

	_, err := f.authService.Signup(context.Background(), dto.SignupForm{Username: "registrar", Password1: "12345678", Password2: "12345678"})
	requireFieldError(t, err, "password2", "This password is entirely numeric.")

	exists, err := f.users.UsernameExists(context.Background(), "registrar")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.authService.CreateAccount(ctx, "registrar", "correct-horse")
	require.NoError(t, err)

	session, err := f.authService.Login(ctx, dto.LoginForm{Username: "registrar", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)

	stored, err := f.users.GetByUsername(ctx, "registrar")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)

	_, wrongPassword := f.authService.Login(ctx, dto.LoginForm{Username: "registrar", Password: "battery-staple"})
	_, unknownUser := f.authService.Login(ctx, dto.LoginForm{Username: "nobody", Password: "correct-horse"})
	assert.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, apperrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())

	_, err = f.authService.Login(ctx, dto.LoginForm{Username: "registrar"})
	requireFieldError(t, err, "password", "This field is required.")
}

func TestLogoutEndsSessionForReplayedToken(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.authService.CreateAccount(ctx, "registrar", "correct-horse")
	require.NoError(t, err)
	first, err := f.authService.Login(ctx, dto.LoginForm{Username: "registrar", Password: "correct-horse"})
	require.NoError(t, err)
	second, err := f.authService.Login(ctx, dto.LoginForm{Username: "registrar", Password: "correct-horse"})
	require.NoError(t, err)

	identity, err := f.authService.Authenticate(ctx, first.Token)
	require.NoError(t, err)

	require.NoError(t, f.authService.Logout(auth.WithIdentity(ctx, identity)))

	_, err = f.authService.Authenticate(ctx, first.Token)
	assert.ErrorIs(t, err, apperrors.ErrSessionRevoked)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	// other logins of the same account stay open
	_, err = f.authService.Authenticate(ctx, second.Token)
	assert.NoError(t, err)

	// ending it twice, or with no identity, is harmless
	assert.NoError(t, f.authService.Logout(auth.WithIdentity(ctx, identity)))
	assert.NoError(t, f.authService.Logout(ctx))
}

func TestAuthenticateRejectsUnknownSessions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.authService.CreateAccount(ctx, "registrar", "correct-horse")
	require.NoError(t, err)

	// signed by the right key but never stored as a session
	token, err := f.jwt.GenerateToken(user)
	require.NoError(t, err)
	_, err = f.authService.Authenticate(ctx, token.Value)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	_, err = f.authService.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	// a session row owned by another account does not vouch for the token
	other, err := f.authService.CreateAccount(ctx, "clerk", "correct-horse")
	require.NoError(t, err)
	require.NoError(t, f.sessions.Create(ctx, &models.Session{TokenID: token.ID, UserID: other.ID, ExpiresAt: token.ExpiresAt}))
	_, err = f.authService.Authenticate(ctx, token.Value)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestPruneSessions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.authService.CreateAccount(ctx, "registrar", "correct-horse")
	require.NoError(t, err)
	require.NoError(t, f.sessions.Create(ctx, &models.Session{TokenID: "lapsed", UserID: user.ID, ExpiresAt: time.Now().Add(-time.Minute)}))
	_, err = f.authService.Login(ctx, dto.LoginForm{Username: "registrar", Password: "correct-horse"})
	require.NoError(t, err)

	deleted, err := f.authService.PruneSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Len(t, f.db.sessions, 1)
}
