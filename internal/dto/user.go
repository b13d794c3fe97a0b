package dto

import (
	"time"

	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
)

// UserResponse is the public view of a profile. Password and OTP fields are
// never exposed.
type UserResponse struct {
	UserID        string     `json:"id"`
	Email         string     `json:"email"`
	FullName      *string    `json:"full_name,omitempty"`
	Role          string     `json:"role"`
	Phone         *string    `json:"phone,omitempty"`
	AvatarURL     *string    `json:"avatar_url,omitempty"`
	Bio           *string    `json:"bio,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	PlanStatus    string     `json:"plan_status"`
	PlanID        *string    `json:"plan_id,omitempty"`
	PlanExpiresAt *time.Time `json:"plan_expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:        user.UserID,
		Email:         user.Email,
		FullName:      user.FullName,
		Role:          string(user.Role),
		Phone:         user.Phone,
		AvatarURL:     user.AvatarURL,
		Bio:           user.Bio,
		EmailVerified: user.EmailVerified,
		PlanStatus:    string(user.PlanStatus),
		PlanID:        user.PlanID,
		PlanExpiresAt: user.PlanExpiresAt,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

// CreateUserRequest is used by administrators to provision an account directly.
type CreateUserRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8,max=72"`
	FullName string  `json:"full_name" binding:"required,max=200"`
	Role     string  `json:"role" binding:"required,user_role"`
	Phone    *string `json:"phone,omitempty" binding:"omitempty,max=32"`
}

// UpdateUserRequest defines the fields an administrator may change.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	FullName      *string    `json:"full_name" binding:"omitempty,max=200"`
	Phone         *string    `json:"phone" binding:"omitempty,max=32"`
	AvatarURL     *string    `json:"avatar_url" binding:"omitempty,url"`
	Bio           *string    `json:"bio" binding:"omitempty,max=2000"`
	Role          *string    `json:"role" binding:"omitempty,user_role"`
	EmailVerified *bool      `json:"email_verified"`
	PlanStatus    *string    `json:"plan_status" binding:"omitempty,plan_status"`
	PlanID        *string    `json:"plan_id" binding:"omitempty,uuid"`
	PlanExpiresAt *time.Time `json:"plan_expires_at"`
}

// UpdateProfileRequest is the self-service subset of UpdateUserRequest.
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name" binding:"omitempty,max=200"`
	Phone     *string `json:"phone" binding:"omitempty,max=32"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
	Bio       *string `json:"bio" binding:"omitempty,max=2000"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Role   string `form:"role" binding:"omitempty,user_role"`
	Limit  int    `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int    `form:"offset,default=0" binding:"min=0"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users  []UserResponse `json:"users"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ToListUserResponse converts a slice of domain.User to ListUsersResponse DTO
func ToListUserResponse(users []domain.User, limit, offset int) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{
		Users:  userResponses,
		Limit:  limit,
		Offset: offset,
	}
}
