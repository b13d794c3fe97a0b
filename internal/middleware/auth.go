package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rtsyr/rtsyr_backend/internal/apperrors"
	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
	"github.com/rtsyr/rtsyr_backend/internal/platform/metrics"
)

const (
	msgUnauthorized = "Invalid or missing access token"
	msgForbidden    = "Insufficient permissions"
)

// AccessTokenVerifier validates an access token and returns its claims.
type AccessTokenVerifier interface {
	VerifyAccessToken(accessToken string) (*domain.TokenClaims, error)
}

// IdentityResolver loads the user behind a token subject.
type IdentityResolver interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// PublicRoutes is the set of "METHOD /route/template" entries that skip
// authentication.
type PublicRoutes map[string]struct{}

// NewPublicRoutes builds a PublicRoutes set from (method, path) pairs written
// as "POST /api/v1/auth/login".
func NewPublicRoutes(routes ...string) PublicRoutes {
	set := make(PublicRoutes, len(routes))
	for _, r := range routes {
		set[r] = struct{}{}
	}
	return set
}

// isPublicRoute matches on the registered route template, so path parameters
// cannot be used to dodge the check.
func (p PublicRoutes) isPublicRoute(c *gin.Context) bool {
	if c.FullPath() == "" {
		return false
	}
	_, ok := p[c.Request.Method+" "+c.FullPath()]
	return ok
}

// AuthGate authenticates every non-public request: bearer token, signature
// and expiry, then a lookup of the subject, which must still exist and be
// email-verified. The resolved identity is attached to the request context.
// All failures are answered with the same 401 body.
func AuthGate(tokens AccessTokenVerifier, users IdentityResolver, public PublicRoutes) gin.HandlerFunc {
	return func(c *gin.Context) {
		if public.isPublicRoute(c) {
			c.Next()
			return
		}

		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Warn("Authorization header missing or malformed")
			abortUnauthorized(c, "missing_token")
			return
		}

		claims, err := tokens.VerifyAccessToken(tokenString)
		if err != nil {
			logger.Warn("Access token rejected", slog.String("error", err.Error()))
			abortUnauthorized(c, "invalid_token")
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				logger.Error("Failed to resolve token subject", slog.String("user_id", claims.UserID), slog.String("error", err.Error()))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			logger.Warn("Token subject no longer exists", slog.String("user_id", claims.UserID))
			abortUnauthorized(c, "unknown_subject")
			return
		}
		if !user.EmailVerified {
			logger.Warn("Token subject is not email-verified", slog.String("user_id", user.UserID))
			abortUnauthorized(c, "unverified_subject")
			return
		}

		withIdentity(c, user)
		enriched := logger.With(slog.String("user_id", user.UserID), slog.String("role", string(user.Role)))
		c.Request = c.Request.WithContext(WithLogger(c.Request.Context(), enriched))

		c.Next()
	}
}

// RequireRoles allows the request only when the authenticated user's role is
// one of roles. Roles are never implied: an admin only passes routes that
// list RoleAdmin.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRoleFromContext(c)
		if !ok {
			abortUnauthorized(c, "missing_identity")
			return
		}
		if !slices.Contains(roles, role) {
			GetLoggerFromCtx(c.Request.Context()).Warn("Role not permitted for route",
				slog.String("role", string(role)),
				slog.String("route", c.FullPath()))
			metrics.RecordAuthError("forbidden_role")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": msgForbidden})
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, reason string) {
	metrics.RecordAuthError(reason)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgUnauthorized})
}
