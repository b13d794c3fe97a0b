package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/rtsyr/rtsyr_backend/internal/apperrors"
	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
	portsrepo "github.com/rtsyr/rtsyr_backend/internal/core/ports/repositories"
	portssvc "github.com/rtsyr/rtsyr_backend/internal/core/ports/services"
)

type signupReviewService struct {
	BaseService
	signupRepo portsrepo.SignupRequestRepositoryFacade
	userRepo   portsrepo.UserReader
	otp        portssvc.OTPSvc
}

func NewSignupReviewService(signupRepo portsrepo.SignupRequestRepositoryFacade, userRepo portsrepo.UserReader, otp portssvc.OTPSvc) portssvc.SignupReviewSvc {
	return &signupReviewService{signupRepo: signupRepo, userRepo: userRepo, otp: otp}
}

func (s *signupReviewService) ListSignupRequests(ctx context.Context, filter domain.SignupRequestFilter) ([]domain.SignupRequest, error) {
	reqs, err := s.signupRepo.FindSignupRequests(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list signup requests in service: %w", err)
	}
	return reqs, nil
}

func (s *signupReviewService) GetSignupRequest(ctx context.Context, requestID string) (*domain.SignupRequest, error) {
	req, err := s.signupRepo.FindSignupRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFound("Signup request not found")
		}
		return nil, fmt.Errorf("failed to get signup request in service: %w", err)
	}
	return req, nil
}

// Review moves a pending request to its terminal status. The request
// transitions exactly once; a second review of the same request is a conflict.
func (s *signupReviewService) Review(ctx context.Context, requestID, reviewerID string, status domain.SignupRequestStatus, reasonNote *string) (*domain.SignupRequest, *domain.User, error) {
	if !status.IsReviewDecision() {
		return nil, nil, apperrors.NewBadRequest("status must be one of approved, rejected, need_more_info")
	}
	note := optionalString(derefString(reasonNote))
	if status.RequiresReasonNote() && note == nil {
		return nil, nil, apperrors.ErrReasonNoteRequired
	}

	req, err := s.GetSignupRequest(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if !req.IsPending() {
		return nil, nil, apperrors.ErrSignupAlreadyClosed
	}

	now := s.now()
	req.ReviewedByID = &reviewerID
	req.ReviewedAt = &now
	req.ReasonNote = note

	logger := s.GetLogger(ctx).With(
		slog.String("request_id", req.RequestID),
		slog.String("reviewer_id", reviewerID),
		slog.String("status", string(status)))

	switch status {
	case domain.SignupStatusApproved:
		user, err := s.approve(ctx, req)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Signup request approved", slog.String("user_id", user.UserID))
		return req, user, nil
	case domain.SignupStatusRejected, domain.SignupStatusNeedMoreInfo:
		req.Status = status
		if err := s.signupRepo.CloseSignupRequest(ctx, *req); err != nil {
			return nil, nil, err
		}
		logger.Info("Signup request closed")
		return req, nil, nil
	case domain.SignupStatusPending:
	}
	return nil, nil, apperrors.NewBadRequest("status must be one of approved, rejected, need_more_info")
}

func (s *signupReviewService) approve(ctx context.Context, req *domain.SignupRequest) (*domain.User, error) {
	if _, err := s.userRepo.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.ErrEmailTaken
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email availability: %w", err)
	}

	now := *req.ReviewedAt
	passwordHash := req.PasswordHash
	user := domain.User{
		UserID:        uuid.NewString(),
		Email:         strings.ToLower(req.Email),
		PasswordHash:  &passwordHash,
		FullName:      req.FullName,
		Role:          req.Role,
		Phone:         req.Phone,
		EmailVerified: false,
		PlanStatus:    domain.PlanStatusFree,
		Timestamps:    domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	req.Status = domain.SignupStatusApproved
	req.UserID = &user.UserID

	if err := s.signupRepo.ApproveSignupRequest(ctx, *req, user); err != nil {
		req.Status = domain.SignupStatusPending
		req.UserID = nil
		return nil, err
	}

	if err := s.otp.Issue(ctx, &user); err != nil {
		s.LogError(ctx, err, "Failed to issue verification code after approval", slog.String("user_id", user.UserID))
	}
	return &user, nil
}
