package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-publishing/internal/infra/config"
	"github.com/arklim/social-platform-publishing/internal/transport/http/handlers"
	"github.com/arklim/social-platform-publishing/internal/transport/http/middleware"
	"github.com/arklim/social-platform-publishing/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth       *usecase.AuthService
	Users      *usecase.UserService
	Content    *usecase.ContentService
	Categories *usecase.CategoryService
	Comments   *usecase.CommentService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config   *config.AppConfig
	Logger   *zap.Logger
	Services ServiceSet
	Metrics  *middleware.HTTPMetrics
	Database DatabaseChecker
	Cache    CacheChecker
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
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

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

	sessionCfg := deps.Config.Session

	api := r.Group("/api/v1")
	{
		// The session group resolves the cookie session (redeeming a
		// remember-me token when needed) and enforces the CSRF token on
		// mutating methods.
		session := api.Group("")
		session.Use(middleware.RequireSession(deps.Services.Auth, sessionCfg))
		session.Use(middleware.CSRFGuard())

		authHandler := handlers.NewAuthHandler(deps.Services.Auth, sessionCfg)
		authHandler.RegisterRoutes(api, session)

		postHandler := handlers.NewPostHandler(deps.Services.Content)
		postHandler.RegisterRoutes(api, session)

		commentHandler := handlers.NewCommentHandler(deps.Services.Comments, deps.Services.Content)
		commentHandler.RegisterRoutes(api, session)

		categoryHandler := handlers.NewCategoryHandler(deps.Services.Categories)
		categoryHandler.RegisterRoutes(api, session)

		userHandler := handlers.NewUserHandler(deps.Services.Users)
		userHandler.RegisterRoutes(session)
	}

	return r
}
