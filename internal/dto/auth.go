package dto

// SignupRequest is the public registration payload. Company and organization
// registrations are queued for review; plain users are created immediately.
type SignupRequest struct {
	Email             string  `json:"email" binding:"required,email"`
	Password          string  `json:"password" binding:"required,min=8,max=72"`
	FullName          string  `json:"full_name" binding:"required,max=200"`
	Role              string  `json:"role" binding:"required,user_role"`
	Phone             *string `json:"phone,omitempty" binding:"omitempty,max=32"`
	DriveLink         *string `json:"drive_link,omitempty" binding:"omitempty,url"`
	CommercialFileURL *string `json:"commercial_file_url,omitempty" binding:"omitempty,url"`
}

// SignupResponse carries either the queued request id or the created user.
type SignupResponse struct {
	Message   string        `json:"message"`
	RequestID string        `json:"request_id,omitempty"`
	Email     string        `json:"email"`
	Status    string        `json:"status"`
	User      *UserResponse `json:"user,omitempty"`
}

// LoginRequest accepts exactly one of email or phone.
type LoginRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone" binding:"omitempty,max=32"`
	Password string `json:"password" binding:"required"`
}

// VerifyEmailRequest identifies the account by user_id or by email.
type VerifyEmailRequest struct {
	UserID string `json:"user_id" binding:"omitempty,uuid"`
	Email  string `json:"email" binding:"omitempty,email"`
	Code   string `json:"code" binding:"required,len=6,numeric"`
}

type ResendOTPRequest struct {
	UserID string `json:"user_id" binding:"omitempty,uuid"`
	Email  string `json:"email" binding:"omitempty,email"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse is returned by login and email verification.
type AuthResponse struct {
	Message      string       `json:"message,omitempty"`
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// TokenPairResponse is returned by refresh.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
