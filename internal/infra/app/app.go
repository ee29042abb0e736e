package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-publishing/internal/core/port"
	"github.com/arklim/social-platform-publishing/internal/infra/config"
	"github.com/arklim/social-platform-publishing/internal/infra/database"
	kafkainfra "github.com/arklim/social-platform-publishing/internal/infra/kafka"
	"github.com/arklim/social-platform-publishing/internal/infra/logger"
	redisinfra "github.com/arklim/social-platform-publishing/internal/infra/redis"
	"github.com/arklim/social-platform-publishing/internal/infra/storage"
	"github.com/arklim/social-platform-publishing/internal/infra/telemetry"
	postgresrepo "github.com/arklim/social-platform-publishing/internal/repository/postgres"
	redisrepo "github.com/arklim/social-platform-publishing/internal/repository/redis"
	"github.com/arklim/social-platform-publishing/internal/transport/http/middleware"
	"github.com/arklim/social-platform-publishing/internal/transport/http/routes"
	"github.com/arklim/social-platform-publishing/internal/usecase"
)

const pruneInterval = time.Hour

// Application owns the wired dependency graph and the HTTP server lifecycle.
type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
	auth     *usecase.AuthService
}

// New wires configuration, storage backends, services, and the HTTP router.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if _, err := telemetry.Attach(ctx, cfg); err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)
	sessionStore := redisrepo.NewSessionStore(redisClient.Client(), cfg.Redis.SessionPrefix, cfg.Session.TTL)

	blobStore, err := storage.NewFileStore(cfg.Storage.UploadDir, log)
	if err != nil {
		_ = redisClient.Close()
		pool.Close()
		return nil, fmt.Errorf("init file store: %w", err)
	}

	var eventPublisher port.EventPublisher
	var producer *kafkainfra.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	authService := usecase.NewAuthService(cfg, repos.Users, repos.LoginAttempts, repos.RememberTokens, sessionStore, eventPublisher)
	userService := usecase.NewUserService(cfg, repos.Users)
	contentService := usecase.NewContentService(cfg, repos.Posts, repos.Categories, blobStore, eventPublisher, log)
	categoryService := usecase.NewCategoryService(repos.Categories)
	commentService := usecase.NewCommentService(cfg, repos.Comments, repos.Posts)

	httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		log.Warn("failed to init http metrics", zap.Error(err))
	}

	engine := routes.Register(routes.Dependencies{
		Config:   cfg,
		Logger:   log,
		Metrics:  httpMetrics,
		Database: pool,
		Cache:    redisClient,
		Services: routes.ServiceSet{
			Auth:       authService,
			Users:      userService,
			Content:    contentService,
			Categories: categoryService,
			Comments:   commentService,
		},
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
		auth:     authService,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting publishing API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	go a.pruneLoop(ctx)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}

// pruneLoop periodically removes expired remember tokens and old login
// attempt rows until the context is cancelled.
func (a *Application) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tokens, attempts, err := a.auth.PruneArtifacts(ctx)
			if err != nil {
				a.logger.Warn("auth artifact pruning failed", zap.Error(err))
				continue
			}
			if tokens > 0 || attempts > 0 {
				a.logger.Info("pruned auth artifacts",
					zap.Int("remember_tokens", tokens),
					zap.Int("login_attempts", attempts),
				)
			}
		}
	}
}
