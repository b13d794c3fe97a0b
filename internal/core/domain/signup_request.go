package domain

import (
	"fmt"
	"time"
)

// SignupRequestStatus is the review state of a signup request.
type SignupRequestStatus string

const (
	SignupStatusPending      SignupRequestStatus = "pending"
	SignupStatusApproved     SignupRequestStatus = "approved"
	SignupStatusRejected     SignupRequestStatus = "rejected"
	SignupStatusNeedMoreInfo SignupRequestStatus = "need_more_info"
)

// AllSignupStatuses lists every status in a stable order.
var AllSignupStatuses = []SignupRequestStatus{
	SignupStatusPending,
	SignupStatusApproved,
	SignupStatusRejected,
	SignupStatusNeedMoreInfo,
}

func ParseSignupRequestStatus(s string) (SignupRequestStatus, error) {
	st := SignupRequestStatus(s)
	switch st {
	case SignupStatusPending, SignupStatusApproved, SignupStatusRejected, SignupStatusNeedMoreInfo:
		return st, nil
	}
	return "", fmt.Errorf("unknown signup request status %q", s)
}

// IsReviewDecision reports whether the status is a valid outcome of an admin review.
func (s SignupRequestStatus) IsReviewDecision() bool {
	switch s {
	case SignupStatusApproved, SignupStatusRejected, SignupStatusNeedMoreInfo:
		return true
	case SignupStatusPending:
		return false
	}
	return false
}

// RequiresReasonNote reports whether a decision must come with a reason note.
func (s SignupRequestStatus) RequiresReasonNote() bool {
	switch s {
	case SignupStatusRejected, SignupStatusNeedMoreInfo:
		return true
	case SignupStatusPending, SignupStatusApproved:
		return false
	}
	return false
}

// SignupRequest is a registration waiting for an administrator decision.
type SignupRequest struct {
	RequestID         string              `json:"id"`
	Email             string              `json:"email"`
	PasswordHash      string              `json:"-"`
	FullName          *string             `json:"full_name,omitempty"`
	Role              Role                `json:"role"`
	Phone             *string             `json:"phone,omitempty"`
	DriveLink         *string             `json:"drive_link,omitempty"`
	CommercialFileURL *string             `json:"commercial_file_url,omitempty"`
	Status            SignupRequestStatus `json:"status"`
	ReasonNote        *string             `json:"reason_note,omitempty"`
	ReviewedByID      *string             `json:"reviewed_by_id,omitempty"`
	ReviewedAt        *time.Time          `json:"reviewed_at,omitempty"`
	UserID            *string             `json:"user_id,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

// IsPending reports whether the request is still awaiting review.
func (r *SignupRequest) IsPending() bool {
	return r.Status == SignupStatusPending
}

// SignupRequestFilter narrows signup request listings.
type SignupRequestFilter struct {
	Status *SignupRequestStatus
	Limit  int
	Offset int
}
