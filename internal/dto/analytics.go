package dto

import "github.com/rtsyr/rtsyr_backend/internal/core/domain"

type AnalyticsResponse struct {
	TotalUsers     int64            `json:"total_users"`
	VerifiedUsers  int64            `json:"verified_users"`
	UsersByRole    map[string]int64 `json:"users_by_role"`
	SignupRequests map[string]int64 `json:"signup_requests"`
}

func ToAnalyticsResponse(stats *domain.UserStats) AnalyticsResponse {
	byRole := make(map[string]int64, len(stats.UsersByRole))
	for role, n := range stats.UsersByRole {
		byRole[string(role)] = n
	}
	byStatus := make(map[string]int64, len(stats.SignupRequests))
	for status, n := range stats.SignupRequests {
		byStatus[string(status)] = n
	}
	return AnalyticsResponse{
		TotalUsers:     stats.TotalUsers,
		VerifiedUsers:  stats.VerifiedUsers,
		UsersByRole:    byRole,
		SignupRequests: byStatus,
	}
}
