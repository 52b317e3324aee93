package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// Revoked sessions are kept this long before cleanup deletes them
const revokedSessionRetention = 30 * 24 * time.Hour

// ISessionRepository defines the interface for login session operations
type ISessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByTokenID(ctx context.Context, tokenID string) (*models.Session, error)
	Revoke(ctx context.Context, tokenID string) error
	CleanupExpired(ctx context.Context) (int64, error)
}

// SessionRepository handles login session database operations
type SessionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create records a newly issued session
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	sql, args, err := r.sb.Insert("sessions").
		Columns("token_id", "user_id", "expires_at", "is_revoked").
		Values(session.TokenID, session.UserID, session.ExpiresAt, false).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create session SQL")
		return fmt.Errorf("failed to build create session query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&session.CreatedAt)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", session.UserID).Msg("Error executing create session query")
		return fmt.Errorf("error creating session: %w", err)
	}

	session.IsRevoked = false
	return nil
}

// GetByTokenID retrieves a session that can still authenticate requests.
// Revoked sessions return ErrSessionRevoked, lapsed ones ErrTokenExpired.
func (r *SessionRepository) GetByTokenID(ctx context.Context, tokenID string) (*models.Session, error) {
	sql, args, err := r.sb.Select("token_id", "user_id", "expires_at", "is_revoked", "created_at").
		From("sessions").
		Where(squirrel.Eq{"token_id": tokenID}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get session SQL")
		return nil, fmt.Errorf("failed to build get session query: %w", err)
	}

	s := &models.Session{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.TokenID, &s.UserID, &s.ExpiresAt, &s.IsRevoked, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		logger.Error().Err(err).Str("tokenID", tokenID).Msg("Error scanning session row")
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}

	if s.IsRevoked {
		return nil, apperrors.ErrSessionRevoked
	}
	if !s.Active(time.Now()) {
		return nil, apperrors.ErrTokenExpired
	}

	return s, nil
}

// Revoke ends a session so its token no longer authenticates
func (r *SessionRepository) Revoke(ctx context.Context, tokenID string) error {
	sql, args, err := r.sb.Update("sessions").
		Set("is_revoked", true).
		Where(squirrel.Eq{"token_id": tokenID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building revoke session SQL")
		return fmt.Errorf("failed to build revoke session query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("tokenID", tokenID).Msg("Error executing revoke session query")
		return fmt.Errorf("error revoking session: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}

	return nil
}

// CleanupExpired deletes lapsed sessions and long-revoked ones
func (r *SessionRepository) CleanupExpired(ctx context.Context) (int64, error) {
	now := time.Now()

	sql, args, err := r.sb.Delete("sessions").
		Where(squirrel.Or{
			squirrel.Lt{"expires_at": now},
			squirrel.And{
				squirrel.Eq{"is_revoked": true},
				squirrel.Lt{"created_at": now.Add(-revokedSessionRetention)},
			},
		}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building cleanup sessions SQL")
		return 0, fmt.Errorf("failed to build cleanup sessions query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing cleanup sessions query")
		return 0, fmt.Errorf("error cleaning up sessions: %w", err)
	}

	deleted := cmdTag.RowsAffected()
	logger.Info().Int64("deletedCount", deleted).Msg("Cleaned up expired and old revoked sessions")

	return deleted, nil
}
