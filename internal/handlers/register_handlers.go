package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rtsyr/rtsyr_backend/cmd/docs"
	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
	portssvc "github.com/rtsyr/rtsyr_backend/internal/core/ports/services"
	"github.com/rtsyr/rtsyr_backend/internal/middleware"
	"github.com/rtsyr/rtsyr_backend/internal/platform/config"
	"github.com/rtsyr/rtsyr_backend/internal/platform/metrics"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const apiV1Prefix = "/api/v1"

// publicAPIRoutes skip the auth gate. Everything else under /api/v1 requires
// a valid access token for an existing, verified user.
var publicAPIRoutes = middleware.NewPublicRoutes(
	"POST "+apiV1Prefix+"/auth/signup",
	"POST "+apiV1Prefix+"/auth/login",
	"POST "+apiV1Prefix+"/auth/verify-email",
	"POST "+apiV1Prefix+"/auth/resend-otp",
	"POST "+apiV1Prefix+"/auth/refresh",
	"POST "+apiV1Prefix+"/auth/logout",
)

// RegisterRoutes sets up all application routes. authLimit throttles the
// credential endpoints and may be nil.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	authLimit gin.HandlerFunc,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	setupAPIV1Routes(r, services, authLimit)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the
// per-area route registrations.
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer, authLimit gin.HandlerFunc) {
	v1 := r.Group(apiV1Prefix, middleware.AuthGate(services.TokenService, services.User, publicAPIRoutes))

	registerAuthRoutes(v1, newAuthHandler(services.Auth, services.User), authLimit)
	registerProfileRoutes(v1, newProfileHandler(services.User))

	admin := v1.Group("/admin", middleware.RequireRoles(domain.RoleAdmin))
	registerSignupReviewRoutes(admin, newSignupReviewHandler(services.SignupReview))
	registerUserRoutes(admin, newUserHandler(services.User))
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = apiV1Prefix
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
