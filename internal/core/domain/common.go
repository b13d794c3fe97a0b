package domain

import "time"

// Timestamps holds the standard row timestamps.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
