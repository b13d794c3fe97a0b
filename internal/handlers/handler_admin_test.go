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

func (s *HandlerTestSuite) TestProfileMe_RequiresToken() {
	w := s.do(http.MethodGet, "/api/v1/profiles/me", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Invalid or missing access token", s.errorMessage(w))
}

func (s *HandlerTestSuite) TestProfileMe_RejectsBadToken() {
	s.tokenSvc.On("VerifyAccessToken", "garbage").Return(nil, apperrors.ErrUnauthorized).Once()

	w := s.do(http.MethodGet, "/api/v1/profiles/me", "garbage", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Invalid or missing access token", s.errorMessage(w))
}

func (s *HandlerTestSuite) TestProfileMe_ReturnsCurrentUser() {
	token := s.signInAs(domain.RoleCompany)

	w := s.do(http.MethodGet, "/api/v1/profiles/me", token, nil)
	s.Equal(http.StatusOK, w.Code)
	var resp dto.UserResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(s.currentUser.UserID, resp.UserID)
	s.Equal("company", resp.Role)
}

func (s *HandlerTestSuite) TestProfileMe_UpdateUsesCallerID() {
	token := s.signInAs(domain.RoleUser)
	bio := "Hello"
	updated := *s.currentUser
	updated.Bio = &bio
	s.userSvc.On("UpdateProfile", mock.Anything, s.currentUser.UserID, dto.UpdateProfileRequest{Bio: &bio}).
		Return(&updated, nil).Once()

	w := s.do(http.MethodPatch, "/api/v1/profiles/me", token, map[string]any{"bio": "Hello"})
	s.Equal(http.StatusOK, w.Code)
	s.userSvc.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestAdminRoutes_ForbiddenForOtherRoles() {
	for _, role := range []domain.Role{domain.RoleUser, domain.RoleCompany, domain.RoleOrganization} {
		token := s.signInAs(role)
		w := s.do(http.MethodGet, "/api/v1/admin/signup-requests", token, nil)
		s.Equal(http.StatusForbidden, w.Code, role)
		s.Equal("Insufficient permissions", s.errorMessage(w))
	}
	s.reviewSvc.AssertNotCalled(s.T(), "ListSignupRequests", mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestListSignupRequests_DefaultsToPending() {
	token := s.signInAs(domain.RoleAdmin)
	s.reviewSvc.On("ListSignupRequests", mock.Anything, mock.MatchedBy(func(f domain.SignupRequestFilter) bool {
		return f.Status != nil && *f.Status == domain.SignupStatusPending && f.Limit == 20 && f.Offset == 0
	})).Return([]domain.SignupRequest{{
		RequestID: uuid.NewString(),
		Email:     "acme@example.com",
		Role:      domain.RoleCompany,
		Status:    domain.SignupStatusPending,
		CreatedAt: time.Now(),
	}}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/admin/signup-requests", token, nil)
	s.Equal(http.StatusOK, w.Code)
	var resp dto.ListSignupRequestsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Len(resp.Requests, 1)
	s.NotContains(w.Body.String(), "password")
}

func (s *HandlerTestSuite) TestReviewSignupRequest_Approve() {
	token := s.signInAs(domain.RoleAdmin)
	requestID := uuid.NewString()
	created := unverifiedUser("acme@example.com")
	created.Role = domain.RoleCompany
	reviewedAt := time.Now()
	reviewed := &domain.SignupRequest{
		RequestID:    requestID,
		Email:        "acme@example.com",
		Role:         domain.RoleCompany,
		Status:       domain.SignupStatusApproved,
		ReviewedByID: &s.currentUser.UserID,
		ReviewedAt:   &reviewedAt,
		UserID:       &created.UserID,
		CreatedAt:    time.Now(),
	}
	s.reviewSvc.On("Review", mock.Anything, requestID, s.currentUser.UserID, domain.SignupStatusApproved, (*string)(nil)).
		Return(reviewed, created, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/admin/signup-requests/"+requestID+"/review", token, map[string]any{"status": "approved"})
	s.Equal(http.StatusOK, w.Code)
	var resp dto.ReviewSignupResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("Signup request approved", resp.Message)
	s.Equal("approved", resp.Request.Status)
	s.Require().NotNil(resp.User)
	s.Equal(created.UserID, resp.User.UserID)
}

func (s *HandlerTestSuite) TestReviewSignupRequest_PendingIsNotADecision() {
	token := s.signInAs(domain.RoleAdmin)

	w := s.do(http.MethodPost, "/api/v1/admin/signup-requests/"+uuid.NewString()+"/review", token, map[string]any{"status": "pending"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.reviewSvc.AssertNotCalled(s.T(), "Review", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestReviewSignupRequest_MissingReason() {
	token := s.signInAs(domain.RoleAdmin)
	requestID := uuid.NewString()
	s.reviewSvc.On("Review", mock.Anything, requestID, s.currentUser.UserID, domain.SignupStatusRejected, (*string)(nil)).
		Return(nil, nil, apperrors.ErrReasonNoteRequired).Once()

	w := s.do(http.MethodPost, "/api/v1/admin/signup-requests/"+requestID+"/review", token, map[string]any{"status": "rejected"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(apperrors.ErrReasonNoteRequired.Message, s.errorMessage(w))
}

func (s *HandlerTestSuite) TestDeleteUser_AdminIsForbidden() {
	token := s.signInAs(domain.RoleAdmin)
	target := uuid.NewString()
	s.userSvc.On("DeleteUser", mock.Anything, target).Return(apperrors.ErrCannotDeleteAdmin).Once()

	w := s.do(http.MethodDelete, "/api/v1/admin/users/"+target, token, nil)
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("Admin users cannot be deleted", s.errorMessage(w))
}

func (s *HandlerTestSuite) TestDeleteUser_NoContent() {
	token := s.signInAs(domain.RoleAdmin)
	target := uuid.NewString()
	s.userSvc.On("DeleteUser", mock.Anything, target).Return(nil).Once()

	w := s.do(http.MethodDelete, "/api/v1/admin/users/"+target, token, nil)
	s.Equal(http.StatusNoContent, w.Code)
	s.Empty(w.Body.String())
}

func (s *HandlerTestSuite) TestGetUser_NotFound() {
	token := s.signInAs(domain.RoleAdmin)
	target := uuid.NewString()
	s.userSvc.On("GetUserByID", mock.Anything, target).Return(nil, apperrors.ErrNotFound).Once()

	w := s.do(http.MethodGet, "/api/v1/admin/users/"+target, token, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Resource not found", s.errorMessage(w))
}

func (s *HandlerTestSuite) TestAnalytics() {
	token := s.signInAs(domain.RoleAdmin)
	s.userSvc.On("GetStats", mock.Anything).Return(&domain.UserStats{
		TotalUsers:     5,
		VerifiedUsers:  3,
		UsersByRole:    map[domain.Role]int64{domain.RoleUser: 4, domain.RoleAdmin: 1},
		SignupRequests: map[domain.SignupRequestStatus]int64{domain.SignupStatusPending: 2},
	}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/admin/analytics", token, nil)
	s.Equal(http.StatusOK, w.Code)
	var resp dto.AnalyticsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.EqualValues(5, resp.TotalUsers)
	s.EqualValues(4, resp.UsersByRole["user"])
	s.EqualValues(2, resp.SignupRequests["pending"])
}

func (s *HandlerTestSuite) TestAdminRoutes_RejectMalformedID() {
	token := s.signInAs(domain.RoleAdmin)
	cases := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/v1/admin/users/abc", nil},
		{http.MethodPut, "/api/v1/admin/users/abc", map[string]any{"plan_status": "free"}},
		{http.MethodDelete, "/api/v1/admin/users/abc", nil},
		{http.MethodGet, "/api/v1/admin/signup-requests/not-a-uuid", nil},
		{http.MethodPost, "/api/v1/admin/signup-requests/not-a-uuid/review", map[string]any{"status": "approved"}},
	}
	for _, tc := range cases {
		w := s.do(tc.method, tc.path, token, tc.body)
		s.Equal(http.StatusBadRequest, w.Code, "%s %s", tc.method, tc.path)
		s.Equal("Invalid id format", s.errorMessage(w), "%s %s", tc.method, tc.path)
	}

	s.userSvc.AssertNotCalled(s.T(), "GetUserByID", mock.Anything, "abc")
	s.userSvc.AssertNotCalled(s.T(), "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
	s.userSvc.AssertNotCalled(s.T(), "DeleteUser", mock.Anything, mock.Anything)
	s.reviewSvc.AssertNotCalled(s.T(), "GetSignupRequest", mock.Anything, mock.Anything)
	s.reviewSvc.AssertNotCalled(s.T(), "Review", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
