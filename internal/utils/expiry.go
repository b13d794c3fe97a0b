package utils

import (
	"math"
	"strconv"
	"time"
)

// DefaultTokenExpiry is used when an expiry string cannot be parsed.
const DefaultTokenExpiry = 7 * 24 * time.Hour

// ParseExpiry converts strings like "30s", "15m", "12h" or "7d" into a
// duration. Anything else, including values too large for a Duration, falls
// back to DefaultTokenExpiry.
func ParseExpiry(expiry string) time.Duration {
	if len(expiry) < 2 {
		return DefaultTokenExpiry
	}
	value, err := strconv.Atoi(expiry[:len(expiry)-1])
	if err != nil || value <= 0 {
		return DefaultTokenExpiry
	}

	var unit time.Duration
	switch expiry[len(expiry)-1] {
	case 's':
		unit = time.Second
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	default:
		return DefaultTokenExpiry
	}
	if int64(value) > math.MaxInt64/int64(unit) {
		return DefaultTokenExpiry
	}
	return time.Duration(value) * unit
}
