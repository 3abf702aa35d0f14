package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/isha-gohel181/rewear/internal/infra/config"
	"github.com/isha-gohel181/rewear/internal/infra/security"
	"github.com/isha-gohel181/rewear/internal/transport/http/handlers"
	"github.com/isha-gohel181/rewear/internal/transport/http/middleware"
	"github.com/isha-gohel181/rewear/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Users *usecase.UserService
	Items *usecase.ItemService
	Swaps *usecase.SwapService
	Admin *usecase.AdminService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config          *config.AppConfig
	Logger          *zap.Logger
	RateLimiter     *middleware.RateLimiter
	Services        ServiceSet
	TokenVerifier   *security.TokenVerifier
	WebhookVerifier *security.WebhookVerifier
	Database        DatabaseChecker
	Cache           CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))

	httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		deps.Logger.Warn("failed to register http metrics collectors", zap.Error(err))
	}
	r.Use(httpMetrics.Handler())

	authMiddleware := middleware.RequireAuth(deps.TokenVerifier)
	optionalAuth := middleware.OptionalAuth(deps.TokenVerifier)

	healthOptions := make([]handlers.HealthOption, 0, 2)

	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}

	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		webhookHandler := handlers.NewWebhookHandler(deps.Services.Users, deps.WebhookVerifier)
		webhookHandlers := buildWebhookMiddlewares(deps)
		webhookHandlers = append(webhookHandlers, webhookHandler.HandleIdentityEvent)
		api.POST("/webhooks/identity", webhookHandlers...)

		userHandler := handlers.NewUserHandler(deps.Services.Users)
		userGroup := api.Group("/users")
		userGroup.GET("/me", authMiddleware, userHandler.Me)
		userGroup.PUT("/me", authMiddleware, userHandler.UpdateMe)
		userGroup.DELETE("/me", authMiddleware, userHandler.DeactivateMe)
		userGroup.GET("", authMiddleware, userHandler.List)

		itemHandler := handlers.NewItemHandler(deps.Services.Items)
		itemGroup := api.Group("/items")
		itemGroup.GET("", optionalAuth, itemHandler.List)
		itemGroup.GET("/:id", optionalAuth, itemHandler.Get)
		itemGroup.POST("", authMiddleware, itemHandler.Create)
		itemGroup.PUT("/:id", authMiddleware, itemHandler.Update)
		itemGroup.DELETE("/:id", authMiddleware, itemHandler.Delete)
		itemGroup.POST("/moderate", authMiddleware, itemHandler.Moderate)

		swapHandler := handlers.NewSwapHandler(deps.Services.Swaps)
		swapGroup := api.Group("/swaps")
		swapGroup.Use(authMiddleware)

		requestHandlers := buildSwapRequestMiddlewares(deps)
		requestHandlers = append(requestHandlers, swapHandler.Request)
		swapGroup.POST("/request", requestHandlers...)
		swapGroup.POST("/respond", swapHandler.Respond)
		swapGroup.GET("/user", swapHandler.List)
		swapGroup.POST("/message", swapHandler.AddMessage)

		adminHandler := handlers.NewAdminHandler(deps.Services.Admin)
		adminGroup := api.Group("/admin")
		adminGroup.Use(authMiddleware)
		adminGroup.GET("/pending-items", adminHandler.PendingItems)
		adminGroup.GET("/stats", adminHandler.DashboardStats)
		adminGroup.POST("/user-role", userHandler.UpdateRole)
	}

	return r
}

func buildSwapRequestMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.SwapRequestMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       "swap_request_user",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.AuthenticatedUserIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}

func buildWebhookMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.WebhookMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       "webhook_identity_ip",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
