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
	"github.com/rtsyr/rtsyr_backend/internal/dto"
	"github.com/rtsyr/rtsyr_backend/internal/utils"
)

type authService struct {
	BaseService
	userRepo    portsrepo.UserRepositoryFacade
	signupRepo  portsrepo.SignupRequestRepositoryFacade
	tokens      portssvc.TokenSvcFacade
	otp         portssvc.OTPSvc
	phoneRegion string
}

// NewAuthService wires signup, login, email verification and token rotation.
// phoneRegion is the ISO region used for numbers without a country code.
func NewAuthService(
	userRepo portsrepo.UserRepositoryFacade,
	signupRepo portsrepo.SignupRequestRepositoryFacade,
	tokens portssvc.TokenSvcFacade,
	otp portssvc.OTPSvc,
	phoneRegion string,
) portssvc.AuthSvcFacade {
	return &authService{
		userRepo:    userRepo,
		signupRepo:  signupRepo,
		tokens:      tokens,
		otp:         otp,
		phoneRegion: phoneRegion,
	}
}

func (s *authService) Signup(ctx context.Context, req dto.SignupRequest) (*domain.SignupOutcome, error) {
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, apperrors.NewBadRequest("Invalid role")
	}
	if !role.SelfRegistrable() {
		return nil, apperrors.NewForbidden("This role cannot be chosen at signup")
	}

	email := normalizeEmail(req.Email)
	phone, err := normalizeOptionalPhone(req.Phone, s.phoneRegion)
	if err != nil {
		return nil, err
	}

	if err := s.ensureIdentityFree(ctx, email, phone); err != nil {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	fullName := optionalString(req.FullName)
	now := s.now()

	switch role {
	case domain.RoleCompany, domain.RoleOrganization:
		return s.queueSignupRequest(ctx, domain.SignupRequest{
			RequestID:         uuid.NewString(),
			Email:             email,
			PasswordHash:      passwordHash,
			FullName:          fullName,
			Role:              role,
			Phone:             phone,
			DriveLink:         optionalString(derefString(req.DriveLink)),
			CommercialFileURL: optionalString(derefString(req.CommercialFileURL)),
			Status:            domain.SignupStatusPending,
			CreatedAt:         now,
		})
	case domain.RoleUser:
		user := domain.User{
			UserID:        uuid.NewString(),
			Email:         email,
			PasswordHash:  &passwordHash,
			FullName:      fullName,
			Role:          role,
			Phone:         phone,
			EmailVerified: false,
			PlanStatus:    domain.PlanStatusFree,
			Timestamps:    domain.Timestamps{CreatedAt: now, UpdatedAt: now},
		}
		if err := s.userRepo.SaveUser(ctx, user); err != nil {
			return nil, err
		}
		if err := s.otp.Issue(ctx, &user); err != nil {
			// The account exists; the user can ask for a new code.
			s.LogError(ctx, err, "Failed to issue verification code at signup", slog.String("user_id", user.UserID))
		}
		s.LogInfo(ctx, "User signed up", slog.String("user_id", user.UserID))
		return &domain.SignupOutcome{User: &user}, nil
	case domain.RoleAdmin:
	}
	return nil, apperrors.NewForbidden("This role cannot be chosen at signup")
}

func (s *authService) queueSignupRequest(ctx context.Context, req domain.SignupRequest) (*domain.SignupOutcome, error) {
	_, err := s.signupRepo.FindPendingSignupRequestByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, apperrors.ErrSignupAlreadyPending
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("failed to check pending signup requests: %w", err)
	}

	// The partial unique index still catches a concurrent duplicate.
	if err := s.signupRepo.SaveSignupRequest(ctx, req); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Signup request queued for review",
		slog.String("request_id", req.RequestID),
		slog.String("role", string(req.Role)))
	return &domain.SignupOutcome{Request: &req}, nil
}

// ensureIdentityFree rejects an email or phone already owned by a profile.
func (s *authService) ensureIdentityFree(ctx context.Context, email string, phone *string) error {
	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return apperrors.ErrEmailTaken
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check email availability: %w", err)
	}
	if phone == nil {
		return nil
	}
	if _, err := s.userRepo.FindUserByPhone(ctx, *phone); err == nil {
		return apperrors.ErrPhoneTaken
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check phone availability: %w", err)
	}
	return nil
}

// Login checks the password before the verification flag so that callers
// without the password learn nothing about the account.
func (s *authService) Login(ctx context.Context, identifier domain.LoginIdentifier, password string) (*domain.AuthResult, error) {
	var (
		user *domain.User
		err  error
	)
	switch identifier.Kind {
	case domain.LoginByEmail:
		user, err = s.userRepo.FindUserByEmail(ctx, normalizeEmail(identifier.Value))
	case domain.LoginByPhone:
		phone, perr := utils.NormalizePhone(identifier.Value, s.phoneRegion)
		if perr != nil {
			return nil, apperrors.ErrInvalidCredentials
		}
		user, err = s.userRepo.FindUserByPhone(ctx, phone)
	default:
		return nil, apperrors.ErrLoginIdentifier
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user for login: %w", err)
	}

	if !user.HasPassword() || !utils.CheckPasswordHash(password, *user.PasswordHash) {
		s.LogDebug(ctx, "Login rejected: bad credentials", slog.String("user_id", user.UserID))
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return nil, apperrors.ErrEmailNotVerified
	}

	pair, err := s.tokens.IssueTokenPair(ctx, claimsFor(user))
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "User logged in", slog.String("user_id", user.UserID))
	return &domain.AuthResult{User: user, Tokens: *pair}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, userID string, code string) (*domain.AuthResult, error) {
	user, err := s.otp.Verify(ctx, userID, code)
	if err != nil {
		return nil, err
	}
	pair, err := s.tokens.IssueTokenPair(ctx, claimsFor(user))
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{User: user, Tokens: *pair}, nil
}

func (s *authService) ResendOTP(ctx context.Context, userID string) error {
	return s.otp.Resend(ctx, userID)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	return s.tokens.Refresh(ctx, refreshToken)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}

func claimsFor(user *domain.User) domain.TokenClaims {
	return domain.TokenClaims{UserID: user.UserID, Email: user.Email, Role: user.Role}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeOptionalPhone returns nil for an absent or blank number.
func normalizeOptionalPhone(raw *string, region string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	phone, err := utils.NormalizePhone(*raw, region)
	if err != nil {
		return nil, apperrors.NewBadRequest("Invalid phone number")
	}
	return &phone, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
