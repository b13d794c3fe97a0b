package dto

import (
	"time"

	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
)

// ReviewSignupRequest is the admin decision on a pending signup request.
type ReviewSignupRequest struct {
	Status     string  `json:"status" binding:"required,signup_decision"`
	ReasonNote *string `json:"reason_note" binding:"omitempty,max=2000"`
}

type ListSignupRequestsParams struct {
	Status string `form:"status,default=pending" binding:"omitempty,signup_status"`
	Limit  int    `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int    `form:"offset,default=0" binding:"min=0"`
}

type SignupRequestResponse struct {
	RequestID         string     `json:"id"`
	Email             string     `json:"email"`
	FullName          *string    `json:"full_name,omitempty"`
	Role              string     `json:"role"`
	Phone             *string    `json:"phone,omitempty"`
	DriveLink         *string    `json:"drive_link,omitempty"`
	CommercialFileURL *string    `json:"commercial_file_url,omitempty"`
	Status            string     `json:"status"`
	ReasonNote        *string    `json:"reason_note,omitempty"`
	ReviewedByID      *string    `json:"reviewed_by_id,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`
	UserID            *string    `json:"user_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func ToSignupRequestResponse(req *domain.SignupRequest) SignupRequestResponse {
	return SignupRequestResponse{
		RequestID:         req.RequestID,
		Email:             req.Email,
		FullName:          req.FullName,
		Role:              string(req.Role),
		Phone:             req.Phone,
		DriveLink:         req.DriveLink,
		CommercialFileURL: req.CommercialFileURL,
		Status:            string(req.Status),
		ReasonNote:        req.ReasonNote,
		ReviewedByID:      req.ReviewedByID,
		ReviewedAt:        req.ReviewedAt,
		UserID:            req.UserID,
		CreatedAt:         req.CreatedAt,
	}
}

type ListSignupRequestsResponse struct {
	Requests []SignupRequestResponse `json:"requests"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
}

func ToListSignupRequestsResponse(reqs []domain.SignupRequest, limit, offset int) ListSignupRequestsResponse {
	out := make([]SignupRequestResponse, len(reqs))
	for i := range reqs {
		out[i] = ToSignupRequestResponse(&reqs[i])
	}
	return ListSignupRequestsResponse{Requests: out, Limit: limit, Offset: offset}
}

// ReviewSignupResponse reports the reviewed request and, on approval, the new profile.
type ReviewSignupResponse struct {
	Message string                `json:"message"`
	Request SignupRequestResponse `json:"request"`
	User    *UserResponse         `json:"user,omitempty"`
}
