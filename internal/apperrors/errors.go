package apperrors

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks or broke a business rule.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// AppError carries an HTTP-facing status code and message on top of one of the
// category errors above. errors.Is(err, ErrUnauthorized) etc. keeps working
// through Unwrap.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func NewBadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

func NewUnauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

func NewForbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, ErrForbidden)
}

func NewConflict(message string) *AppError {
	return NewAppError(http.StatusConflict, message, ErrDuplicate)
}

func NewNotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

// Auth flow errors. Compared by identity with errors.Is.
var (
	ErrInvalidCredentials   = NewUnauthorized("Invalid credentials")
	ErrEmailNotVerified     = NewUnauthorized("Please verify your email before logging in")
	ErrInvalidRefreshToken  = NewUnauthorized("Invalid or expired refresh token")
	ErrLoginIdentifier      = NewBadRequest("Either email or phone must be provided")
	ErrEmailAlreadyVerified = NewBadRequest("Email already verified")
	ErrInvalidOTP           = NewBadRequest("Invalid verification code")
	ErrOTPExpired           = NewBadRequest("Verification code has expired")
	ErrReasonNoteRequired   = NewBadRequest("reason_note is required for rejected and need_more_info status")
	ErrSignupAlreadyPending = NewConflict("A signup request for this email is already pending review")
	ErrSignupAlreadyClosed  = NewConflict("Signup request has already been reviewed")
	ErrEmailTaken           = NewConflict("User with this email already exists")
	ErrPhoneTaken           = NewConflict("User with this phone number already exists")
	ErrCannotDeleteAdmin    = NewForbidden("Admin users cannot be deleted")
)

// StatusCode resolves the HTTP status for any error, falling back to the
// category sentinels and finally 500.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
