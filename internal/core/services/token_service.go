package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rtsyr/rtsyr_backend/internal/apperrors"
	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
	portsrepo "github.com/rtsyr/rtsyr_backend/internal/core/ports/repositories"
	portssvc "github.com/rtsyr/rtsyr_backend/internal/core/ports/services"
	"github.com/rtsyr/rtsyr_backend/internal/platform/config"
	"github.com/rtsyr/rtsyr_backend/internal/utils"
)

var (
	// ErrSigningSecretMissing is returned by NewTokenService when either secret is empty.
	ErrSigningSecretMissing = errors.New("access and refresh signing secrets must be configured")
	// ErrSigningSecretShared is returned by NewTokenService when both secrets are equal.
	ErrSigningSecretShared = errors.New("access and refresh signing secrets must differ")
)

// tokenService implements the TokenSvcFacade. Access and refresh tokens are
// both HS256 JWTs carrying {sub, email, role, typ}, signed with distinct secrets.
// Refresh tokens are additionally persisted (hashed) so they can be redeemed
// only once.
type tokenService struct {
	BaseService
	cfg              *config.Config
	refreshTokenRepo portsrepo.RefreshTokenRepository
	userRepo         portsrepo.UserReader
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, refreshTokenRepo portsrepo.RefreshTokenRepository, userRepo portsrepo.UserReader) (portssvc.TokenSvcFacade, error) {
	if cfg == nil || cfg.JWTSecret == "" || cfg.RefreshTokenSecret == "" {
		return nil, ErrSigningSecretMissing
	}
	if cfg.JWTSecret == cfg.RefreshTokenSecret {
		return nil, ErrSigningSecretShared
	}
	return &tokenService{
		cfg:              cfg,
		refreshTokenRepo: refreshTokenRepo,
		userRepo:         userRepo,
	}, nil
}

func (s *tokenService) IssueTokenPair(ctx context.Context, identity domain.TokenClaims) (*domain.TokenPair, error) {
	accessToken, _, err := utils.GenerateJWT(identity, utils.TokenUseAccess, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, refreshExpiry, err := utils.GenerateJWT(identity, utils.TokenUseRefresh, s.cfg.RefreshTokenSecret, s.cfg.RefreshTokenExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	row := &domain.RefreshToken{
		ID:        uuid.NewString(),
		Token:     refreshToken,
		UserID:    identity.UserID,
		ExpiresAt: refreshExpiry,
		CreatedAt: s.now(),
	}
	if err := s.refreshTokenRepo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *tokenService) VerifyAccessToken(accessToken string) (*domain.TokenClaims, error) {
	return utils.ParseAndValidateJWT(accessToken, utils.TokenUseAccess, s.cfg.JWTSecret)
}

func (s *tokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := utils.ParseAndValidateJWT(refreshToken, utils.TokenUseRefresh, s.cfg.RefreshTokenSecret)
	if err != nil {
		s.LogDebug(ctx, "Refresh token failed verification", slog.String("error", err.Error()))
		return nil, apperrors.ErrInvalidRefreshToken
	}

	stored, err := s.refreshTokenRepo.Consume(ctx, refreshToken, s.now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to consume refresh token", slog.String("user_id", claims.UserID))
		}
		return nil, apperrors.ErrInvalidRefreshToken
	}
	if stored.UserID != claims.UserID {
		s.LogWarn(ctx, "Refresh token subject does not match stored owner",
			slog.String("claims_user_id", claims.UserID),
			slog.String("stored_user_id", stored.UserID))
		return nil, apperrors.ErrInvalidRefreshToken
	}

	// New claims follow the current profile, so role changes apply on refresh.
	user, err := s.userRepo.FindUserByID(ctx, stored.UserID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load user for refresh", slog.String("user_id", stored.UserID))
		}
		return nil, apperrors.ErrInvalidRefreshToken
	}

	pair, err := s.IssueTokenPair(ctx, domain.TokenClaims{UserID: user.UserID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("failed to issue rotated token pair: %w", err)
	}
	return pair, nil
}

func (s *tokenService) Revoke(ctx context.Context, refreshToken string) error {
	if err := s.refreshTokenRepo.Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}
