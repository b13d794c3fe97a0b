package utils

import (
	"math/rand/v2"
	"strconv"
)

const (
	otpMin = 100000
	otpMax = 999999
)

// GenerateOTP returns a uniformly random 6-digit code in [100000, 999999].
func GenerateOTP() string {
	return strconv.Itoa(otpMin + rand.IntN(otpMax-otpMin+1))
}
