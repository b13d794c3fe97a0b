package services

import (
	"context"

	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
	"github.com/rtsyr/rtsyr_backend/internal/dto"
)

// TokenSvcFacade mints and verifies access/refresh token pairs.
type TokenSvcFacade interface {
	// IssueTokenPair signs a new pair for identity and persists the refresh token.
	IssueTokenPair(ctx context.Context, identity domain.TokenClaims) (*domain.TokenPair, error)

	// VerifyAccessToken checks signature and expiry against the access secret.
	VerifyAccessToken(accessToken string) (*domain.TokenClaims, error)

	// Refresh redeems refreshToken exactly once and returns a fresh pair for
	// the current state of its user. Every failure is ErrInvalidRefreshToken.
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)

	// Revoke deletes the stored refresh token, if any.
	Revoke(ctx context.Context, refreshToken string) error
}

// OTPSvc issues and checks email verification codes.
type OTPSvc interface {
	Generate() string

	// Issue stores a fresh code on the user and emails it. Delivery failures
	// are logged, not returned.
	Issue(ctx context.Context, user *domain.User) error

	// Verify consumes code for userID and returns the now-verified user.
	Verify(ctx context.Context, userID string, code string) (*domain.User, error)

	// Resend re-issues a code for an unverified user.
	Resend(ctx context.Context, userID string) error
}

// Mailer delivers transactional email. An unconfigured mailer reports
// Configured() == false and its Send is a no-op.
type Mailer interface {
	Configured() bool
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// AuthSvcFacade is the public authentication surface used by the auth handler.
type AuthSvcFacade interface {
	Signup(ctx context.Context, req dto.SignupRequest) (*domain.SignupOutcome, error)
	Login(ctx context.Context, identifier domain.LoginIdentifier, password string) (*domain.AuthResult, error)
	VerifyEmail(ctx context.Context, userID string, code string) (*domain.AuthResult, error)
	ResendOTP(ctx context.Context, userID string) error
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}
