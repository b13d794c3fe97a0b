package models

import "time"

// RefreshToken mirrors a row of the refresh_tokens table. Only the SHA256
// hash of the token is stored.
type RefreshToken struct {
	ID        string    `db:"id"`
	TokenHash string    `db:"token_hash"`
	UserID    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
