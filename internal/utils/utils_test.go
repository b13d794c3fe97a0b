package utils_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
	"github.com/rtsyr/rtsyr_backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpiry(t *testing.T) {
	cases := map[string]time.Duration{
		"30s": 30 * time.Second,
		"15m": 15 * time.Minute,
		"12h": 12 * time.Hour,
		"7d":  7 * 24 * time.Hour,
		"":    utils.DefaultTokenExpiry,
		"d":   utils.DefaultTokenExpiry,
		"0h":  utils.DefaultTokenExpiry,
		"-1h": utils.DefaultTokenExpiry,
		"5w":  utils.DefaultTokenExpiry,
		"abc": utils.DefaultTokenExpiry,

		"200000d":              utils.DefaultTokenExpiry,
		"9223372036854775807s": utils.DefaultTokenExpiry,
		"106751d":              106751 * 24 * time.Hour,
	}
	for in, want := range cases {
		assert.Equal(t, want, utils.ParseExpiry(in), "input %q", in)
	}
}

func TestGenerateOTP_SixDigitsInRange(t *testing.T) {
	for range 1000 {
		code := utils.GenerateOTP()
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestNormalizePhone(t *testing.T) {
	got, err := utils.NormalizePhone("0944 567 890", "SY")
	require.NoError(t, err)
	assert.Equal(t, "+963944567890", got)

	got, err = utils.NormalizePhone("+1 201-555-0123", "SY")
	require.NoError(t, err)
	assert.Equal(t, "+12015550123", got)

	for _, bad := range []string{"", "   ", "12", "not a number"} {
		_, err := utils.NormalizePhone(bad, "SY")
		assert.ErrorIs(t, err, utils.ErrInvalidPhone, bad)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := utils.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, utils.CheckPasswordHash("correct horse", hash))
	assert.False(t, utils.CheckPasswordHash("wrong horse", hash))
	assert.False(t, utils.CheckPasswordHash("correct horse", "not-a-bcrypt-hash"))
}

func TestHashRefreshToken_IsStableHex(t *testing.T) {
	a := utils.HashRefreshToken("token")
	assert.Len(t, a, 64)
	assert.Equal(t, a, utils.HashRefreshToken("token"))
	assert.NotEqual(t, a, utils.HashRefreshToken("token2"))
}

func TestJWT_RoundTrip(t *testing.T) {
	identity := domain.TokenClaims{UserID: "user-1", Email: "a@example.com", Role: domain.RoleCompany}

	token, expiresAt, err := utils.GenerateJWT(identity, utils.TokenUseAccess, "secret-a", time.Minute, "rtsyr-test")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 5*time.Second)

	claims, err := utils.ParseAndValidateJWT(token, utils.TokenUseAccess, "secret-a")
	require.NoError(t, err)
	assert.Equal(t, identity, *claims)

	_, err = utils.ParseAndValidateJWT(token, utils.TokenUseAccess, "secret-b")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestJWT_DistinctTokensForSameIdentity(t *testing.T) {
	identity := domain.TokenClaims{UserID: "user-1", Email: "a@example.com", Role: domain.RoleUser}
	first, _, err := utils.GenerateJWT(identity, utils.TokenUseRefresh, "secret", time.Minute, "")
	require.NoError(t, err)
	second, _, err := utils.GenerateJWT(identity, utils.TokenUseRefresh, "secret", time.Minute, "")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestJWT_Expired(t *testing.T) {
	identity := domain.TokenClaims{UserID: "user-1", Role: domain.RoleUser}
	token, _, err := utils.GenerateJWT(identity, utils.TokenUseRefresh, "secret", -time.Minute, "")
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(token, utils.TokenUseRefresh, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWT_EmptySecret(t *testing.T) {
	_, _, err := utils.GenerateJWT(domain.TokenClaims{UserID: "u"}, utils.TokenUseAccess, "", time.Minute, "")
	assert.Error(t, err)
}

func TestJWT_UseMustMatch(t *testing.T) {
	identity := domain.TokenClaims{UserID: "user-1", Role: domain.RoleUser}
	refresh, _, err := utils.GenerateJWT(identity, utils.TokenUseRefresh, "shared", time.Hour, "")
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(refresh, utils.TokenUseAccess, "shared")
	assert.ErrorIs(t, err, utils.ErrTokenUseMismatch)

	claims, err := utils.ParseAndValidateJWT(refresh, utils.TokenUseRefresh, "shared")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}
