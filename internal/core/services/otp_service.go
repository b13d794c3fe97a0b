package services

import (
	"bytes"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/rtsyr/rtsyr_backend/internal/apperrors"
	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
	portsrepo "github.com/rtsyr/rtsyr_backend/internal/core/ports/repositories"
	portssvc "github.com/rtsyr/rtsyr_backend/internal/core/ports/services"
	"github.com/rtsyr/rtsyr_backend/internal/platform/metrics"
	"github.com/rtsyr/rtsyr_backend/internal/utils"
)

// OTPValidity is how long an issued verification code stays usable.
const OTPValidity = 15 * time.Minute

const otpEmailSubject = "Email Verification - RT-SYR"

var otpEmailTemplate = template.Must(template.New("otp").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
  <h2>Email Verification</h2>
  <p>Hello {{.Name}},</p>
  <p>Please use the following code to verify your email:</p>
  <div style="background:#f4f4f4;padding:20px;text-align:center;font-size:32px;font-weight:bold;letter-spacing:6px;">
    {{.Code}}
  </div>
  <p>This code expires in <strong>{{.Minutes}} minutes</strong>.</p>
  <p>If you didn't request this, please ignore this email.</p>
  <hr />
  <p style="font-size:12px;color:#666;">RT-SYR - Recruitments &amp; Tenders</p>
</div>`))

type otpService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	mailer   portssvc.Mailer
}

func NewOTPService(userRepo portsrepo.UserRepositoryFacade, mailer portssvc.Mailer) portssvc.OTPSvc {
	return &otpService{userRepo: userRepo, mailer: mailer}
}

func (s *otpService) Generate() string {
	return utils.GenerateOTP()
}

func (s *otpService) Issue(ctx context.Context, user *domain.User) error {
	code := s.Generate()
	expiresAt := s.now().Add(OTPValidity)

	if err := s.userRepo.SetEmailOTP(ctx, user.UserID, code, expiresAt); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	user.EmailVerificationOTP = &code
	user.OTPExpiresAt = &expiresAt

	s.dispatch(ctx, user.Email, code, user.DisplayName())
	return nil
}

// dispatch emails the code. It never fails: without SMTP, or when delivery
// fails, the code is logged so the flow stays usable in development and via resend.
func (s *otpService) dispatch(ctx context.Context, email, code, fullName string) {
	if s.mailer == nil || !s.mailer.Configured() {
		s.LogWarn(ctx, "[DEV MODE] Email verification code", slog.String("email", email), slog.String("otp", code))
		metrics.RecordEmailDelivery("skipped")
		return
	}

	name := fullName
	if name == "" {
		name = "there"
	}
	var body bytes.Buffer
	err := otpEmailTemplate.Execute(&body, struct {
		Name    string
		Code    string
		Minutes int
	}{Name: name, Code: code, Minutes: int(OTPValidity / time.Minute)})
	if err == nil {
		err = s.mailer.Send(ctx, email, otpEmailSubject, body.String())
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to send verification email", slog.String("email", email))
		s.LogWarn(ctx, "[FALLBACK] Email verification code", slog.String("email", email), slog.String("otp", code))
		metrics.RecordEmailDelivery("failed")
		return
	}
	s.LogInfo(ctx, "Verification email sent", slog.String("email", email))
	metrics.RecordEmailDelivery("sent")
}

func (s *otpService) Verify(ctx context.Context, userID string, code string) (*domain.User, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.EmailVerified {
		return nil, apperrors.ErrEmailAlreadyVerified
	}
	if user.EmailVerificationOTP == nil || subtle.ConstantTimeCompare([]byte(*user.EmailVerificationOTP), []byte(code)) != 1 {
		return nil, apperrors.ErrInvalidOTP
	}
	now := s.now()
	if user.OTPExpired(now) {
		return nil, apperrors.ErrOTPExpired
	}

	changed, err := s.userRepo.MarkEmailVerified(ctx, user.UserID, code, now)
	if err != nil {
		return nil, err
	}
	if !changed {
		// Another request verified the account or replaced the code between
		// the read above and the update.
		current, err := s.loadUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if current.EmailVerified {
			return nil, apperrors.ErrEmailAlreadyVerified
		}
		return nil, apperrors.ErrInvalidOTP
	}

	user.EmailVerified = true
	user.EmailVerificationOTP = nil
	user.OTPExpiresAt = nil
	s.LogInfo(ctx, "Email verified", slog.String("user_id", user.UserID))
	return user, nil
}

func (s *otpService) Resend(ctx context.Context, userID string) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return apperrors.ErrEmailAlreadyVerified
	}
	return s.Issue(ctx, user)
}

func (s *otpService) loadUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFound("User not found")
		}
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	return user, nil
}
