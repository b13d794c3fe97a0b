package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rtsyr/rtsyr_backend/internal/utils"
)

// funnelEvents names the product events for the onboarding funnel, keyed by
// "METHOD route-template". Routes not listed fall back to a name derived from
// the template.
var funnelEvents = map[string]string{
	"POST /api/v1/auth/signup":                      "signup_submitted",
	"POST /api/v1/auth/verify-email":                "email_verified",
	"POST /api/v1/auth/resend-otp":                  "verification_code_resent",
	"POST /api/v1/auth/login":                       "logged_in",
	"POST /api/v1/auth/logout":                      "logged_out",
	"POST /api/v1/admin/signup-requests/:id/review": "signup_request_reviewed",
	"PATCH /api/v1/profiles/me":                     "profile_updated",
}

// untracked routes produce no events at all.
var untracked = map[string]bool{
	"/health":              true,
	"/metrics":             true,
	"/api/v1/auth/refresh": true,
	"/swagger/*any":        true,
}

// PosthogMiddleware reports successful requests to PostHog. Events carry the
// route template, never raw path values, so request and user ids stay out of
// event names.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if !posthogClient.IsInitialized() || route == "" || untracked[route] {
			return
		}
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		key := c.Request.Method + " " + route
		event, ok := funnelEvents[key]
		if !ok {
			event = strings.ToLower(c.Request.Method) + "_" + strings.ReplaceAll(strings.Trim(route, "/"), "/", "_")
		}

		props := map[string]any{
			"route":       route,
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
		}

		// Public auth calls have no identity yet and are grouped per client IP.
		distinctID := "anon:" + c.ClientIP()
		if userID, ok := GetUserIDFromContext(c); ok {
			distinctID = userID
			if role, ok := GetUserRoleFromContext(c); ok {
				props["role"] = string(role)
			}
		}

		posthogClient.Enqueue(distinctID, event, props)
	}
}
