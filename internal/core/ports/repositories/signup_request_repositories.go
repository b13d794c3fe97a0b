package repositories

import (
	"context"

	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
)

// SignupRequestReader defines read operations for signup requests.
type SignupRequestReader interface {
	FindSignupRequestByID(ctx context.Context, requestID string) (*domain.SignupRequest, error)

	// FindPendingSignupRequestByEmail returns apperrors.ErrNotFound when no
	// pending request exists for the email.
	FindPendingSignupRequestByEmail(ctx context.Context, email string) (*domain.SignupRequest, error)

	FindSignupRequests(ctx context.Context, filter domain.SignupRequestFilter) ([]domain.SignupRequest, error)

	CountSignupRequests(ctx context.Context, status domain.SignupRequestStatus) (int64, error)
}

// SignupRequestWriter defines write operations for signup requests.
type SignupRequestWriter interface {
	// SaveSignupRequest persists a new pending request. A second pending
	// request for the same email maps to apperrors.ErrSignupAlreadyPending.
	SaveSignupRequest(ctx context.Context, req domain.SignupRequest) error

	// CloseSignupRequest records a rejected/need_more_info decision. It only
	// touches rows still pending and returns apperrors.ErrSignupAlreadyClosed otherwise.
	CloseSignupRequest(ctx context.Context, req domain.SignupRequest) error

	// ApproveSignupRequest creates the profile and marks the request approved
	// in one transaction.
	ApproveSignupRequest(ctx context.Context, req domain.SignupRequest, user domain.User) error
}

// SignupRequestRepositoryFacade combines all signup request repository interfaces.
type SignupRequestRepositoryFacade interface {
	SignupRequestReader
	SignupRequestWriter
}
