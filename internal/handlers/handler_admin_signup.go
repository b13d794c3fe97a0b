package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
	portssvc "github.com/rtsyr/rtsyr_backend/internal/core/ports/services"
	"github.com/rtsyr/rtsyr_backend/internal/dto"
	"github.com/rtsyr/rtsyr_backend/internal/middleware"
	"github.com/rtsyr/rtsyr_backend/internal/platform/metrics"
)

// signupReviewHandler exposes the approval queue to administrators.
type signupReviewHandler struct {
	reviewService portssvc.SignupReviewSvc
}

func newSignupReviewHandler(rs portssvc.SignupReviewSvc) *signupReviewHandler {
	return &signupReviewHandler{reviewService: rs}
}

func registerSignupReviewRoutes(admin *gin.RouterGroup, h *signupReviewHandler) {
	requests := admin.Group("/signup-requests")
	{
		requests.GET("", h.listSignupRequests)
		requests.GET("/:id", h.getSignupRequest)
		requests.POST("/:id/review", h.reviewSignupRequest)
	}
}

// listSignupRequests godoc
// @Summary List signup requests
// @Tags admin
// @Produce json
// @Param status query string false "Filter by status" default(pending)
// @Param limit query int false "Limit" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListSignupRequestsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/signup-requests [get]
func (h *signupReviewHandler) listSignupRequests(c *gin.Context) {
	var params dto.ListSignupRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	filter := domain.SignupRequestFilter{Limit: params.Limit, Offset: params.Offset}
	if params.Status != "" {
		status := domain.SignupRequestStatus(params.Status)
		filter.Status = &status
	}

	requests, err := h.reviewService.ListSignupRequests(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err, "Failed to list signup requests")
		return
	}
	c.JSON(http.StatusOK, dto.ToListSignupRequestsResponse(requests, params.Limit, params.Offset))
}

// getSignupRequest godoc
// @Summary Get a signup request
// @Tags admin
// @Produce json
// @Param id path string true "Signup request ID"
// @Success 200 {object} dto.SignupRequestResponse
// @Failure 400 {object} ErrorResponse "Malformed id"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/signup-requests/{id} [get]
func (h *signupReviewHandler) getSignupRequest(c *gin.Context) {
	requestID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	req, err := h.reviewService.GetSignupRequest(c.Request.Context(), requestID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve signup request")
		return
	}
	c.JSON(http.StatusOK, dto.ToSignupRequestResponse(req))
}

// reviewSignupRequest godoc
// @Summary Review a signup request
// @Description Approving provisions the account and emails a verification code. Rejecting or asking for more information requires reason_note.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Signup request ID"
// @Param review body dto.ReviewSignupRequest true "Decision"
// @Success 200 {object} dto.ReviewSignupResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already reviewed, or email taken"
// @Security BearerAuth
// @Router /admin/signup-requests/{id}/review [post]
func (h *signupReviewHandler) reviewSignupRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reviewerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	requestID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.ReviewSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	status := domain.SignupRequestStatus(req.Status)
	reviewed, user, err := h.reviewService.Review(c.Request.Context(), requestID, reviewerID, status, req.ReasonNote)
	if err != nil {
		respondWithError(c, err, "Failed to review signup request")
		return
	}

	metrics.RecordSignupDecision(string(status))
	logger.Info("Signup request reviewed",
		slog.String("request_id", requestID),
		slog.String("status", string(status)))

	resp := dto.ReviewSignupResponse{
		Message: "Signup request " + string(status),
		Request: dto.ToSignupRequestResponse(reviewed),
	}
	if user != nil {
		u := dto.ToUserResponse(user)
		resp.User = &u
	}
	c.JSON(http.StatusOK, resp)
}
