package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rtsyr/rtsyr_backend/internal/apperrors"
	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
	portssvc "github.com/rtsyr/rtsyr_backend/internal/core/ports/services"
	"github.com/rtsyr/rtsyr_backend/internal/dto"
	"github.com/rtsyr/rtsyr_backend/internal/middleware"
	"github.com/rtsyr/rtsyr_backend/internal/platform/metrics"
)

// authHandler serves the public /auth endpoints.
type authHandler struct {
	authService portssvc.AuthSvcFacade
	userService portssvc.UserReaderSvc
}

func newAuthHandler(as portssvc.AuthSvcFacade, us portssvc.UserReaderSvc) *authHandler {
	return &authHandler{authService: as, userService: us}
}

// registerAuthRoutes mounts the auth endpoints. limited wraps the
// brute-force sensitive routes; it may be nil.
func registerAuthRoutes(rg *gin.RouterGroup, h *authHandler, limited gin.HandlerFunc) {
	auth := rg.Group("/auth")
	withLimit := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		if limited == nil {
			return []gin.HandlerFunc{handler}
		}
		return []gin.HandlerFunc{limited, handler}
	}

	auth.POST("/signup", withLimit(h.signup)...)
	auth.POST("/login", withLimit(h.login)...)
	auth.POST("/verify-email", withLimit(h.verifyEmail)...)
	auth.POST("/resend-otp", withLimit(h.resendOTP)...)
	auth.POST("/refresh", h.refresh)
	auth.POST("/logout", h.logout)
}

// signup godoc
// @Summary Register an account
// @Description Users are created immediately and receive a verification code. Company and organization registrations are queued for admin review.
// @Tags auth
// @Accept json
// @Produce json
// @Param signup body dto.SignupRequest true "Signup details"
// @Success 201 {object} dto.SignupResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Role cannot be self-registered"
// @Failure 409 {object} ErrorResponse "Email or phone taken, or request already pending"
// @Failure 429 {object} ErrorResponse
// @Router /auth/signup [post]
func (h *authHandler) signup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	outcome, err := h.authService.Signup(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err, "Failed to process signup")
		return
	}

	metrics.RecordAuthOperation("signup")
	if outcome.Request != nil {
		logger.Info("Signup request queued for review", slog.String("request_id", outcome.Request.RequestID))
		c.JSON(http.StatusCreated, dto.SignupResponse{
			Message:   "Signup request submitted. An administrator will review it shortly.",
			RequestID: outcome.Request.RequestID,
			Email:     outcome.Request.Email,
			Status:    string(outcome.Request.Status),
		})
		return
	}

	user := dto.ToUserResponse(outcome.User)
	logger.Info("User signed up", slog.String("user_id", outcome.User.UserID))
	c.JSON(http.StatusCreated, dto.SignupResponse{
		Message: "User created successfully. Please check your email for verification code.",
		Email:   outcome.User.Email,
		Status:  "created",
		User:    &user,
	})
}

// login godoc
// @Summary Log in
// @Description Authenticates with email or phone plus password and returns a token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	identifier, ok := domain.NewLoginIdentifier(req.Email, req.Phone)
	if !ok {
		respondWithError(c, apperrors.ErrLoginIdentifier, "")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		metrics.RecordAuthError("login_failed")
		respondWithError(c, err, "Failed to log in")
		return
	}

	metrics.RecordAuthOperation("login")
	c.JSON(http.StatusOK, dto.AuthResponse{
		User:         dto.ToUserResponse(result.User),
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
	})
}

// verifyEmail godoc
// @Summary Verify email
// @Description Consumes the 6-digit code sent by email. On success the account is verified and a token pair is returned.
// @Tags auth
// @Accept json
// @Produce json
// @Param verify body dto.VerifyEmailRequest true "User id or email, and the code"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /auth/verify-email [post]
func (h *authHandler) verifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, err := h.resolveUserID(c.Request.Context(), req.UserID, req.Email)
	if err != nil {
		respondWithError(c, err, "Failed to verify email")
		return
	}

	result, err := h.authService.VerifyEmail(c.Request.Context(), userID, req.Code)
	if err != nil {
		respondWithError(c, err, "Failed to verify email")
		return
	}

	metrics.RecordAuthOperation("verify_email")
	c.JSON(http.StatusOK, dto.AuthResponse{
		Message:      "Email verified successfully",
		User:         dto.ToUserResponse(result.User),
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
	})
}

// resendOTP godoc
// @Summary Resend verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param resend body dto.ResendOTPRequest true "User id or email"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /auth/resend-otp [post]
func (h *authHandler) resendOTP(c *gin.Context) {
	var req dto.ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, err := h.resolveUserID(c.Request.Context(), req.UserID, req.Email)
	if err != nil {
		respondWithError(c, err, "Failed to resend verification code")
		return
	}

	if err := h.authService.ResendOTP(c.Request.Context(), userID); err != nil {
		respondWithError(c, err, "Failed to resend verification code")
		return
	}

	metrics.RecordAuthOperation("resend_otp")
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Verification code sent successfully"})
}

// refresh godoc
// @Summary Rotate tokens
// @Description Redeems a refresh token once and returns a new pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.TokenPairResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		metrics.RecordAuthError("refresh_failed")
		respondWithError(c, err, "Failed to refresh token")
		return
	}

	metrics.RecordAuthOperation("refresh")
	c.JSON(http.StatusOK, dto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// logout godoc
// @Summary Log out
// @Description Revokes the given refresh token. Revoking an unknown token also succeeds.
// @Tags auth
// @Accept json
// @Produce json
// @Param logout body dto.LogoutRequest true "Refresh token"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondWithError(c, err, "Failed to log out")
		return
	}

	metrics.RecordAuthOperation("logout")
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

// resolveUserID accepts either identifier; user_id wins when both are sent.
func (h *authHandler) resolveUserID(ctx context.Context, userID, email string) (string, error) {
	if userID != "" {
		return userID, nil
	}
	if email == "" {
		return "", apperrors.NewBadRequest("Either user_id or email must be provided")
	}
	user, err := h.userService.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.NewNotFound("User not found")
		}
		return "", err
	}
	return user.UserID, nil
}
