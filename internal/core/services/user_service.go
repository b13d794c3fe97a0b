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
	"golang.org/x/sync/errgroup"
)

type userService struct {
	BaseService
	userRepo         portsrepo.UserRepositoryFacade
	signupRepo       portsrepo.SignupRequestReader
	refreshTokenRepo portsrepo.RefreshTokenRepository
	phoneRegion      string
}

func NewUserService(
	userRepo portsrepo.UserRepositoryFacade,
	signupRepo portsrepo.SignupRequestReader,
	refreshTokenRepo portsrepo.RefreshTokenRepository,
	phoneRegion string,
) portssvc.UserSvcFacade {
	return &userService{
		userRepo:         userRepo,
		signupRepo:       signupRepo,
		refreshTokenRepo: refreshTokenRepo,
		phoneRegion:      phoneRegion,
	}
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID in service: %w", err)
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email in service: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	users, err := s.userRepo.FindUsers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users in service: %w", err)
	}
	return users, nil
}

// CreateUser provisions an account directly. Administrator-created accounts
// skip email verification.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, apperrors.NewBadRequest("Invalid role")
	}
	phone, err := normalizeOptionalPhone(req.Phone, s.phoneRegion)
	if err != nil {
		return nil, err
	}
	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := domain.User{
		UserID:        uuid.NewString(),
		Email:         normalizeEmail(req.Email),
		PasswordHash:  &passwordHash,
		FullName:      optionalString(req.FullName),
		Role:          role,
		Phone:         phone,
		EmailVerified: true,
		PlanStatus:    domain.PlanStatusFree,
		Timestamps:    domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "User created by administrator", slog.String("new_user_id", user.UserID), slog.String("role", string(role)))
	return &user, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	before := *user

	if err := s.applyProfileChanges(user, req.FullName, req.Phone, req.AvatarURL, req.Bio); err != nil {
		return nil, err
	}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			return nil, apperrors.NewBadRequest("Invalid role")
		}
		user.Role = role
	}
	if req.EmailVerified != nil {
		user.EmailVerified = *req.EmailVerified
	}
	if req.PlanStatus != nil {
		plan := domain.PlanStatus(*req.PlanStatus)
		if !plan.IsValid() {
			return nil, apperrors.NewBadRequest("Invalid plan status")
		}
		user.PlanStatus = plan
	}
	if req.PlanID != nil {
		user.PlanID = optionalString(*req.PlanID)
	}
	if req.PlanExpiresAt != nil {
		user.PlanExpiresAt = req.PlanExpiresAt
	}
	user.UpdatedAt = s.now()

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}

	// Outstanding refresh tokens carry the old role; make the user sign in again.
	if before.Role != user.Role || (before.EmailVerified && !user.EmailVerified) {
		if err := s.refreshTokenRepo.DeleteByUserID(ctx, user.UserID); err != nil {
			s.LogError(ctx, err, "Failed to revoke refresh tokens after account change", slog.String("user_id", user.UserID))
		}
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.applyProfileChanges(user, req.FullName, req.Phone, req.AvatarURL, req.Bio); err != nil {
		return nil, err
	}
	user.UpdatedAt = s.now()
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// applyProfileChanges sets the self-editable fields. An empty string clears
// an optional field.
func (s *userService) applyProfileChanges(user *domain.User, fullName, phone, avatarURL, bio *string) error {
	if fullName != nil {
		user.FullName = optionalString(*fullName)
	}
	if phone != nil {
		normalized, err := normalizeOptionalPhone(phone, s.phoneRegion)
		if err != nil {
			return err
		}
		user.Phone = normalized
	}
	if avatarURL != nil {
		user.AvatarURL = optionalString(*avatarURL)
	}
	if bio != nil {
		user.Bio = optionalString(*bio)
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	switch user.Role {
	case domain.RoleAdmin:
		return apperrors.ErrCannotDeleteAdmin
	case domain.RoleUser, domain.RoleCompany, domain.RoleOrganization:
	}
	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.LogInfo(ctx, "User deleted", slog.String("deleted_user_id", userID))
	return nil
}

// GetStats runs the independent counters concurrently and joins them.
func (s *userService) GetStats(ctx context.Context) (*domain.UserStats, error) {
	var (
		total, verified int64
		byRole          = make([]int64, len(domain.AllRoles))
		byStatus        = make([]int64, len(domain.AllSignupStatuses))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.userRepo.CountUsers(gctx, nil)
		total = n
		return err
	})
	g.Go(func() error {
		n, err := s.userRepo.CountVerifiedUsers(gctx)
		verified = n
		return err
	})
	for i, role := range domain.AllRoles {
		g.Go(func() error {
			n, err := s.userRepo.CountUsers(gctx, &role)
			byRole[i] = n
			return err
		})
	}
	for i, status := range domain.AllSignupStatuses {
		g.Go(func() error {
			n, err := s.signupRepo.CountSignupRequests(gctx, status)
			byStatus[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to collect platform stats: %w", err)
	}

	stats := &domain.UserStats{
		TotalUsers:     total,
		VerifiedUsers:  verified,
		UsersByRole:    make(map[domain.Role]int64, len(byRole)),
		SignupRequests: make(map[domain.SignupRequestStatus]int64, len(byStatus)),
	}
	for i, role := range domain.AllRoles {
		stats.UsersByRole[role] = byRole[i]
	}
	for i, status := range domain.AllSignupStatuses {
		stats.SignupRequests[status] = byStatus[i]
	}
	return stats, nil
}

func (s *userService) EnsureAdmin(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewBadRequest("admin email and password are required")
	}
	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	existing, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	if existing == nil {
		admin := domain.User{
			UserID:        uuid.NewString(),
			Email:         email,
			PasswordHash:  &passwordHash,
			FullName:      optionalString(fullName),
			Role:          domain.RoleAdmin,
			EmailVerified: true,
			PlanStatus:    domain.PlanStatusPaid,
			Timestamps:    domain.Timestamps{CreatedAt: now, UpdatedAt: now},
		}
		if err := s.userRepo.SaveUser(ctx, admin); err != nil {
			return nil, err
		}
		s.LogInfo(ctx, "Admin user created", slog.String("user_id", admin.UserID))
		return &admin, nil
	}

	existing.Role = domain.RoleAdmin
	existing.EmailVerified = true
	existing.PlanStatus = domain.PlanStatusPaid
	if name := strings.TrimSpace(fullName); name != "" {
		existing.FullName = &name
	}
	existing.UpdatedAt = now
	if err := s.userRepo.UpdateUser(ctx, *existing); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdatePassword(ctx, existing.UserID, passwordHash); err != nil {
		return nil, err
	}
	existing.PasswordHash = &passwordHash
	s.LogInfo(ctx, "Admin user updated", slog.String("user_id", existing.UserID))
	return existing, nil
}
