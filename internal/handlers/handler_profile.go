package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/rtsyr/rtsyr_backend/internal/core/ports/services"
	"github.com/rtsyr/rtsyr_backend/internal/dto"
	"github.com/rtsyr/rtsyr_backend/internal/middleware"
)

// profileHandler lets any authenticated user read and edit their own profile.
type profileHandler struct {
	userService portssvc.UserSvcFacade
}

func newProfileHandler(us portssvc.UserSvcFacade) *profileHandler {
	return &profileHandler{userService: us}
}

func registerProfileRoutes(rg *gin.RouterGroup, h *profileHandler) {
	profiles := rg.Group("/profiles")
	{
		profiles.GET("/me", h.getMe)
		profiles.PATCH("/me", h.updateMe)
	}
}

// getMe godoc
// @Summary Current profile
// @Tags profiles
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /profiles/me [get]
func (h *profileHandler) getMe(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// updateMe godoc
// @Summary Update current profile
// @Description Only full_name, phone, avatar_url and bio can be changed here.
// @Tags profiles
// @Accept json
// @Produce json
// @Param profile body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Phone number taken"
// @Security BearerAuth
// @Router /profiles/me [patch]
func (h *profileHandler) updateMe(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, err, "Failed to update profile")
		return
	}

	logger.Info("Profile updated", slog.String("user_id", userID))
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
