package repositories

import (
	"context"
	"time"

	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
)

// UserReader defines read operations for profiles.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by their (unique) email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByPhone retrieves the first user with the given phone number.
	FindUserByPhone(ctx context.Context, phone string) (*domain.User, error)

	// FindUsers retrieves a paginated list of users.
	FindUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
}

// UserWriter defines write operations for profiles.
type UserWriter interface {
	// SaveUser persists a new user. Unique violations map to apperrors.ErrEmailTaken
	// or apperrors.ErrPhoneTaken.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates profile, role, plan and verification fields.
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error

	// DeleteUser removes a user row.
	DeleteUser(ctx context.Context, userID string) error
}

// UserVerificationStore holds the email OTP state.
type UserVerificationStore interface {
	// SetEmailOTP stores a fresh verification code and its expiry.
	SetEmailOTP(ctx context.Context, userID string, otp string, expiresAt time.Time) error

	// MarkEmailVerified flips email_verified and clears the OTP fields only if
	// the user is unverified and the code matches and has not expired at now.
	// It reports whether the row was changed.
	MarkEmailVerified(ctx context.Context, userID string, otp string, now time.Time) (bool, error)
}

// UserStatsReader provides counters for the admin dashboard.
type UserStatsReader interface {
	CountUsers(ctx context.Context, role *domain.Role) (int64, error)
	CountVerifiedUsers(ctx context.Context) (int64, error)
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserVerificationStore
	UserStatsReader
}
