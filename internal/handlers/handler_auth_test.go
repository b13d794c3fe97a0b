package handlers_test

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rtsyr/rtsyr_backend/internal/apperrors"
	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
	"github.com/rtsyr/rtsyr_backend/internal/dto"
	"github.com/stretchr/testify/mock"
)

func unverifiedUser(email string) *domain.User {
	now := time.Now()
	return &domain.User{
		UserID:     uuid.NewString(),
		Email:      email,
		Role:       domain.RoleUser,
		PlanStatus: domain.PlanStatusFree,
		Timestamps: domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
}

func (s *HandlerTestSuite) TestSignup_UserIsCreated() {
	user := unverifiedUser("new@example.com")
	s.authSvc.On("Signup", mock.Anything, mock.MatchedBy(func(req dto.SignupRequest) bool {
		return req.Role == "user" && req.Email == "new@example.com"
	})).Return(&domain.SignupOutcome{User: user}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]any{
		"email":     "new@example.com",
		"password":  "password123",
		"full_name": "New User",
		"role":      "user",
	})

	s.Equal(http.StatusCreated, w.Code)
	var resp dto.SignupResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("created", resp.Status)
	s.Equal("new@example.com", resp.Email)
	s.Empty(resp.RequestID)
	s.Require().NotNil(resp.User)
	s.Equal(user.UserID, resp.User.UserID)
	s.False(resp.User.EmailVerified)
	s.NotContains(w.Body.String(), "password")
	s.authSvc.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestSignup_CompanyIsQueued() {
	queued := &domain.SignupRequest{
		RequestID: uuid.NewString(),
		Email:     "acme@example.com",
		Role:      domain.RoleCompany,
		Status:    domain.SignupStatusPending,
		CreatedAt: time.Now(),
	}
	s.authSvc.On("Signup", mock.Anything, mock.Anything).Return(&domain.SignupOutcome{Request: queued}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]any{
		"email":               "acme@example.com",
		"password":            "password123",
		"full_name":           "Acme Ltd",
		"role":                "company",
		"commercial_file_url": "https://files.example.com/acme.pdf",
	})

	s.Equal(http.StatusCreated, w.Code)
	var resp dto.SignupResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(queued.RequestID, resp.RequestID)
	s.Equal("pending", resp.Status)
	s.Nil(resp.User)
}

func (s *HandlerTestSuite) TestSignup_RejectsMalformedBody() {
	w := s.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]any{
		"email":     "not-an-email",
		"password":  "short",
		"full_name": "X",
		"role":      "superuser",
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(s.errorMessage(w), "Invalid request format")
	s.authSvc.AssertNotCalled(s.T(), "Signup", mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestSignup_ServiceConflictKeepsMessage() {
	s.authSvc.On("Signup", mock.Anything, mock.Anything).Return(nil, apperrors.ErrSignupAlreadyPending).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]any{
		"email":     "acme@example.com",
		"password":  "password123",
		"full_name": "Acme Ltd",
		"role":      "company",
	})
	s.Equal(http.StatusConflict, w.Code)
	s.Equal(apperrors.ErrSignupAlreadyPending.Message, s.errorMessage(w))
}

func (s *HandlerTestSuite) TestLogin_RequiresExactlyOneIdentifier() {
	for _, body := range []map[string]any{
		{"password": "password123"},
		{"email": "a@example.com", "phone": "+963944123456", "password": "password123"},
	} {
		w := s.do(http.MethodPost, "/api/v1/auth/login", "", body)
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal("Either email or phone must be provided", s.errorMessage(w))
	}
	s.authSvc.AssertNotCalled(s.T(), "Login", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestLogin_InvalidCredentials() {
	s.authSvc.On("Login", mock.Anything, domain.LoginIdentifier{Kind: domain.LoginByEmail, Value: "a@example.com"}, "wrong").
		Return(nil, apperrors.ErrInvalidCredentials).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "A@example.com",
		"password": "wrong",
	})
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Invalid credentials", s.errorMessage(w))
}

func (s *HandlerTestSuite) TestLogin_ByPhoneReturnsTokens() {
	user := unverifiedUser("p@example.com")
	user.EmailVerified = true
	s.authSvc.On("Login", mock.Anything, domain.LoginIdentifier{Kind: domain.LoginByPhone, Value: "0944 123 456"}, "password123").
		Return(&domain.AuthResult{User: user, Tokens: domain.TokenPair{AccessToken: "access", RefreshToken: "refresh"}}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"phone":    "0944 123 456",
		"password": "password123",
	})
	s.Equal(http.StatusOK, w.Code)
	var resp dto.AuthResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("access", resp.AccessToken)
	s.Equal("refresh", resp.RefreshToken)
	s.Equal(user.UserID, resp.User.UserID)
}

func (s *HandlerTestSuite) TestVerifyEmail_ByEmail() {
	user := unverifiedUser("v@example.com")
	s.userSvc.On("GetUserByEmail", mock.Anything, "v@example.com").Return(user, nil).Once()
	verified := *user
	verified.EmailVerified = true
	s.authSvc.On("VerifyEmail", mock.Anything, user.UserID, "123456").
		Return(&domain.AuthResult{User: &verified, Tokens: domain.TokenPair{AccessToken: "a", RefreshToken: "r"}}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/verify-email", "", map[string]any{
		"email": "v@example.com",
		"code":  "123456",
	})
	s.Equal(http.StatusOK, w.Code)
	var resp dto.AuthResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("Email verified successfully", resp.Message)
	s.True(resp.User.EmailVerified)
}

func (s *HandlerTestSuite) TestVerifyEmail_UnknownEmail() {
	s.userSvc.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/verify-email", "", map[string]any{
		"email": "ghost@example.com",
		"code":  "123456",
	})
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("User not found", s.errorMessage(w))
}

func (s *HandlerTestSuite) TestVerifyEmail_NeedsAnIdentifier() {
	w := s.do(http.MethodPost, "/api/v1/auth/verify-email", "", map[string]any{"code": "123456"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Either user_id or email must be provided", s.errorMessage(w))
}

func (s *HandlerTestSuite) TestVerifyEmail_WrongCode() {
	userID := uuid.NewString()
	s.authSvc.On("VerifyEmail", mock.Anything, userID, "000000").Return(nil, apperrors.ErrInvalidOTP).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/verify-email", "", map[string]any{
		"user_id": userID,
		"code":    "000000",
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Invalid verification code", s.errorMessage(w))
}

func (s *HandlerTestSuite) TestResendOTP_AlreadyVerified() {
	userID := uuid.NewString()
	s.authSvc.On("ResendOTP", mock.Anything, userID).Return(apperrors.ErrEmailAlreadyVerified).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/resend-otp", "", map[string]any{"user_id": userID})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Email already verified", s.errorMessage(w))
}

func (s *HandlerTestSuite) TestRefresh_Rotates() {
	s.authSvc.On("Refresh", mock.Anything, "old-refresh").
		Return(&domain.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{"refresh_token": "old-refresh"})
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"access_token":"new-access","refresh_token":"new-refresh"}`, w.Body.String())
}

func (s *HandlerTestSuite) TestRefresh_InvalidToken() {
	s.authSvc.On("Refresh", mock.Anything, "spent").Return(nil, apperrors.ErrInvalidRefreshToken).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{"refresh_token": "spent"})
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Invalid or expired refresh token", s.errorMessage(w))
}

func (s *HandlerTestSuite) TestLogout() {
	s.authSvc.On("Logout", mock.Anything, "some-refresh").Return(nil).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/logout", "", map[string]any{"refresh_token": "some-refresh"})
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"message":"Logged out successfully"}`, w.Body.String())
}

func (s *HandlerTestSuite) TestInternalErrorsAreNotLeaked() {
	s.authSvc.On("Logout", mock.Anything, "x").Return(assertErr("pq: connection refused")).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/logout", "", map[string]any{"refresh_token": "x"})
	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("Failed to log out", s.errorMessage(w))
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
