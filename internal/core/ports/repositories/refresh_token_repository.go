package repositories

import (
	"context"
	"time"

	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
)

// RefreshTokenRepository defines data access for persisted refresh tokens.
type RefreshTokenRepository interface {
	// Create persists a new refresh token row.
	Create(ctx context.Context, token *domain.RefreshToken) error

	// Consume atomically deletes the row for token if it has not expired at
	// now and returns it. Missing or expired rows yield apperrors.ErrNotFound.
	Consume(ctx context.Context, token string, now time.Time) (*domain.RefreshToken, error)

	// Delete removes a refresh token by its value. Missing rows are not an error.
	Delete(ctx context.Context, token string) error

	// DeleteByUserID removes all refresh tokens for a specific user.
	DeleteByUserID(ctx context.Context, userID string) error
}
