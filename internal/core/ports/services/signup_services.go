package services

import (
	"context"

	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
)

// SignupReviewSvc drives the pending -> approved|rejected|need_more_info workflow.
type SignupReviewSvc interface {
	ListSignupRequests(ctx context.Context, filter domain.SignupRequestFilter) ([]domain.SignupRequest, error)
	GetSignupRequest(ctx context.Context, requestID string) (*domain.SignupRequest, error)

	// Review records an admin decision. On approval the returned user is the
	// newly provisioned profile; otherwise it is nil.
	Review(ctx context.Context, requestID, reviewerID string, status domain.SignupRequestStatus, reasonNote *string) (*domain.SignupRequest, *domain.User, error)
}
