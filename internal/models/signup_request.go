package models

import (
	"database/sql"
	"time"
)

// SignupRequest mirrors a row of the signup_requests table.
type SignupRequest struct {
	RequestID         string         `db:"id"`
	Email             string         `db:"email"`
	PasswordHash      string         `db:"password_hash"`
	FullName          sql.NullString `db:"full_name"`
	Role              string         `db:"role"`
	Phone             sql.NullString `db:"phone"`
	DriveLink         sql.NullString `db:"drive_link"`
	CommercialFileURL sql.NullString `db:"commercial_file_url"`
	Status            string         `db:"status"`
	ReasonNote        sql.NullString `db:"reason_note"`
	ReviewedByID      sql.NullString `db:"reviewed_by_id"`
	ReviewedAt        sql.NullTime   `db:"reviewed_at"`
	UserID            sql.NullString `db:"user_id"`
	CreatedAt         time.Time      `db:"created_at"`
}
