package domain

import "time"

// User is a profile in the credential store. It is the aggregate root that
// refresh tokens and signup requests point at.
type User struct {
	UserID               string     `json:"id"`
	Email                string     `json:"email"`
	PasswordHash         *string    `json:"-"`
	FullName             *string    `json:"full_name,omitempty"`
	Role                 Role       `json:"role"`
	Phone                *string    `json:"phone,omitempty"`
	AvatarURL            *string    `json:"avatar_url,omitempty"`
	Bio                  *string    `json:"bio,omitempty"`
	EmailVerified        bool       `json:"email_verified"`
	EmailVerificationOTP *string    `json:"-"`
	OTPExpiresAt         *time.Time `json:"-"`
	PlanStatus           PlanStatus `json:"plan_status"`
	PlanID               *string    `json:"plan_id,omitempty"`
	PlanExpiresAt        *time.Time `json:"plan_expires_at,omitempty"`
	Timestamps
}

// DisplayName returns the full name or an empty string.
func (u *User) DisplayName() string {
	if u.FullName == nil {
		return ""
	}
	return *u.FullName
}

// HasPassword reports whether a local password has been set.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// OTPExpired reports whether the stored verification code is past its expiry.
func (u *User) OTPExpired(now time.Time) bool {
	return u.OTPExpiresAt != nil && u.OTPExpiresAt.Before(now)
}

// UserFilter narrows user listings.
type UserFilter struct {
	Role   *Role
	Limit  int
	Offset int
}

// UserStats aggregates platform counters for the admin dashboard.
type UserStats struct {
	TotalUsers     int64
	VerifiedUsers  int64
	UsersByRole    map[Role]int64
	SignupRequests map[SignupRequestStatus]int64
}
