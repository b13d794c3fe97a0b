package services

import (
	portsrepo "github.com/rtsyr/rtsyr_backend/internal/core/ports/repositories"
	portssvc "github.com/rtsyr/rtsyr_backend/internal/core/ports/services"
	"github.com/rtsyr/rtsyr_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized
// dependencies. It fails when the token signing secrets are missing.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, mailer portssvc.Mailer) (*portssvc.ServiceContainer, error) {
	container := &portssvc.ServiceContainer{}

	tokenService, err := NewTokenService(cfg, repos.RefreshTokenRepo, repos.UserRepo)
	if err != nil {
		return nil, err
	}
	container.TokenService = tokenService

	container.OTP = NewOTPService(repos.UserRepo, mailer)
	container.User = NewUserService(repos.UserRepo, repos.SignupRequestRepo, repos.RefreshTokenRepo, cfg.DefaultPhoneRegion)
	container.Auth = NewAuthService(repos.UserRepo, repos.SignupRequestRepo, container.TokenService, container.OTP, cfg.DefaultPhoneRegion)
	container.SignupReview = NewSignupReviewService(repos.SignupRequestRepo, repos.UserRepo, container.OTP)

	return container, nil
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AuthSvcFacade   = (*authService)(nil)
	_ portssvc.TokenSvcFacade  = (*tokenService)(nil)
	_ portssvc.OTPSvc          = (*otpService)(nil)
	_ portssvc.UserSvcFacade   = (*userService)(nil)
	_ portssvc.SignupReviewSvc = (*signupReviewService)(nil)
)
