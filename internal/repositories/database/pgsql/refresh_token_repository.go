package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rtsyr/rtsyr_backend/internal/apperrors"
	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
	portsrepo "github.com/rtsyr/rtsyr_backend/internal/core/ports/repositories"
	"github.com/rtsyr/rtsyr_backend/internal/models"
	"github.com/rtsyr/rtsyr_backend/internal/utils"
	"github.com/rtsyr/rtsyr_backend/internal/utils/mapping"
)

type PgxRefreshTokenRepository struct {
	BaseRepository
}

func newPgxRefreshTokenRepository(db *pgxpool.Pool) portsrepo.RefreshTokenRepository {
	return &PgxRefreshTokenRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.RefreshTokenRepository = (*PgxRefreshTokenRepository)(nil)

const (
	refreshTokensTable = "refresh_tokens"

	insertRefreshTokenQuery = `
		INSERT INTO ` + refreshTokensTable + ` (id, token_hash, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	// A row can only be deleted once, so two concurrent refreshes with the
	// same token cannot both succeed.
	consumeRefreshTokenQuery = `
		DELETE FROM ` + refreshTokensTable + `
		WHERE token_hash = $1 AND expires_at > $2
		RETURNING id, token_hash, user_id, expires_at, created_at
	`
)

func (r *PgxRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m := mapping.ToModelRefreshToken(*token)
	_, err := r.Pool.Exec(ctx, insertRefreshTokenQuery, m.ID, m.TokenHash, m.UserID, m.ExpiresAt, m.CreatedAt)
	if err != nil {
		if uniqueViolation(err) != "" {
			return fmt.Errorf("%w: refresh token already stored", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *PgxRefreshTokenRepository) Consume(ctx context.Context, token string, now time.Time) (*domain.RefreshToken, error) {
	var m models.RefreshToken
	err := r.Pool.QueryRow(ctx, consumeRefreshTokenQuery, utils.HashRefreshToken(token), now).
		Scan(&m.ID, &m.TokenHash, &m.UserID, &m.ExpiresAt, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}
	rt := mapping.ToDomainRefreshToken(m)
	rt.Token = token
	return &rt, nil
}

func (r *PgxRefreshTokenRepository) Delete(ctx context.Context, token string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM `+refreshTokensTable+` WHERE token_hash = $1`, utils.HashRefreshToken(token))
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

func (r *PgxRefreshTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM `+refreshTokensTable+` WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete refresh tokens for user %s: %w", userID, err)
	}
	return nil
}
