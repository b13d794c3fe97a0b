package models

import (
	"database/sql"
	"time"
)

// User mirrors a row of the profiles table.
type User struct {
	UserID               string         `db:"id"`
	Email                string         `db:"email"`
	PasswordHash         sql.NullString `db:"password_hash"`
	FullName             sql.NullString `db:"full_name"`
	Role                 string         `db:"role"`
	Phone                sql.NullString `db:"phone"`
	AvatarURL            sql.NullString `db:"avatar_url"`
	Bio                  sql.NullString `db:"bio"`
	EmailVerified        bool           `db:"email_verified"`
	EmailVerificationOTP sql.NullString `db:"email_verification_otp"`
	OTPExpiresAt         sql.NullTime   `db:"otp_expires_at"`
	PlanStatus           string         `db:"plan_status"`
	PlanID               sql.NullString `db:"plan_id"`
	PlanExpiresAt        sql.NullTime   `db:"plan_expires_at"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}
