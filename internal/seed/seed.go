package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// EnsureAdmin creates the operator account when both credentials are configured
// and the username is not registered yet. The password must satisfy the signup rules.
func EnsureAdmin(
	ctx context.Context,
	userRepo repositories.IUserRepository,
	authService services.AuthService,
	username, password string,
	lgr zerolog.Logger,
) error {
	if username == "" || password == "" {
		lgr.Debug().Msg("No seed admin configured, skipping")
		return nil
	}

	exists, err := userRepo.UsernameExists(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check seed admin: %w", err)
	}
	if exists {
		lgr.Info().Str("username", username).Msg("Seed admin already exists")
		return nil
	}

	form := dto.SignupForm{Username: username, Password1: password, Password2: password}
	if errs := form.Validate(); errs.HasErrors() {
		return fmt.Errorf("seed admin credentials rejected: %w", errs)
	}

	user, err := authService.CreateAccount(ctx, username, password)
	if err != nil {
		// another instance may have seeded it concurrently
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			return nil
		}
		return fmt.Errorf("failed to create seed admin: %w", err)
	}

	lgr.Info().Int64("userID", user.ID).Str("username", user.Username).Msg("Seed admin created")
	return nil
}
