package services

import (
	"context"

	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
	"github.com/rtsyr/rtsyr_backend/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsers retrieves a paginated list of users.
	ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// CreateUser provisions a verified account on behalf of an administrator.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	// UpdateUser applies an administrator's changes.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// UpdateProfile applies a user's changes to their own profile.
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error)

	// EnsureAdmin creates the administrator account or brings an existing one
	// up to admin role, verified and paid.
	EnsureAdmin(ctx context.Context, email, password, fullName string) (*domain.User, error)
}

// UserLifecycleSvc defines operations for managing user lifecycle
type UserLifecycleSvc interface {
	// DeleteUser removes a user. Admin-role users cannot be deleted.
	DeleteUser(ctx context.Context, userID string) error
}

// UserStatsSvc aggregates platform counters for the admin dashboard.
type UserStatsSvc interface {
	GetStats(ctx context.Context) (*domain.UserStats, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserLifecycleSvc
	UserStatsSvc
}
