package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/knakam/dance-analyzer/internal/auth"
	"github.com/knakam/dance-analyzer/internal/config"
	"github.com/knakam/dance-analyzer/internal/httpapi"
	"github.com/knakam/dance-analyzer/internal/llm"
	"github.com/knakam/dance-analyzer/internal/notify"
	"github.com/knakam/dance-analyzer/internal/repository"
	"github.com/knakam/dance-analyzer/internal/service"
	"github.com/knakam/dance-analyzer/internal/task"
	"github.com/knakam/dance-analyzer/pkg/cache"
	dbbuilder "github.com/knakam/dance-analyzer/pkg/database"
	"github.com/knakam/dance-analyzer/pkg/httpserver"
)

const (
	taskQueueCapacity = 1024
	shutdownTimeout   = 10 * time.Second
	cleanupInterval   = 24 * time.Hour
)

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      *cache.Cache
	httpServer *httpserver.Server
	taskQueue  *task.Queue
	taskPool   *task.Pool

	cancelBackground context.CancelFunc
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	dbPool, err := dbbuilder.New(
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	if err := repository.Migrate(ctx, dbPool); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	cacheClient, err := cache.New(ctx,
		cache.WithAddress(cfg.RedisAddr),
	)
	if err != nil {
		return nil, fmt.Errorf("cache init failed: %w", err)
	}
	logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))

	userRepo := repository.NewUserRepository(dbPool)
	sessionRepo := repository.NewSessionRepository(dbPool)
	analysisRepo := repository.NewAnalysisRepository(dbPool)

	tokens := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)

	model, err := newModelClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	taskQueue := task.NewQueue(taskQueueCapacity)
	taskPool := task.NewPool(taskQueue, logger, task.WithWorkers(cfg.TaskWorkers))

	notifier := notify.NewService(newSender(cfg, logger), taskQueue, logger)

	authService := service.NewAuthService(userRepo, tokens, notifier, logger)
	analysisService := service.NewAnalysisService(sessionRepo, analysisRepo, model, logger)
	userService := service.NewUserService(userRepo, sessionRepo, logger)

	handlers := httpapi.NewHandlers(authService, analysisService, userService, logger,
		httpapi.WithCache(cacheClient, 5*time.Minute))
	router := httpapi.NewRouter(handlers, httpapi.RouterConfig{
		Tokens:      tokens,
		RateCounter: cacheClient,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	httpServer, err := httpserver.New(router,
		httpserver.WithPort(cfg.HTTPPort),
		httpserver.WithLogger(logger),
		httpserver.WithLogging(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}

	app := &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		httpServer: httpServer,
		taskQueue:  taskQueue,
		taskPool:   taskPool,
	}

	bgCtx, cancel := context.WithCancel(context.Background())
	app.cancelBackground = cancel
	app.taskPool.Start(bgCtx)
	app.scheduleCleanup(bgCtx, cfg, analysisService)

	return app, nil
}

func newModelClient(cfg *config.Config, logger *zap.Logger) (llm.Client, error) {
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, analysis uses canned feedback")
		return &llm.MockClient{}, nil
	}
	client, err := llm.NewOpenAIClient(llm.Settings{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
	})
	if err != nil {
		return nil, fmt.Errorf("model client init failed: %w", err)
	}
	return client, nil
}

func newSender(cfg *config.Config, logger *zap.Logger) notify.Sender {
	if cfg.SMTPAddr == "" {
		return notify.NewLogSender(logger)
	}
	sender, err := notify.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPFrom)
	if err != nil {
		logger.Warn("SMTP misconfigured, falling back to log sender", zap.Error(err))
		return notify.NewLogSender(logger)
	}
	return sender
}

// scheduleCleanup enqueues a daily purge of analyses past retention.
func (a *App) scheduleCleanup(ctx context.Context, cfg *config.Config, analyses *service.AnalysisService) {
	if cfg.AnalysisRetentionDays <= 0 {
		return
	}
	retention := time.Duration(cfg.AnalysisRetentionDays) * 24 * time.Hour

	task.Periodic(ctx, a.taskQueue, cleanupInterval, task.Job{
		Name: "analysis-cleanup",
		Run: func(ctx context.Context) error {
			deleted, err := analyses.CleanupAnalyses(ctx, retention)
			if err != nil {
				return err
			}
			a.logger.Info("old analyses purged", zap.Int64("deleted", deleted))
			return nil
		},
	})
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting", zap.String("addr", a.httpServer.Addr().String()))

	a.httpServer.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("application shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("http server shutdown error", zap.Error(err))
	}

	if a.cancelBackground != nil {
		a.cancelBackground()
	}
	if err := a.taskPool.Shutdown(ctx); err != nil {
		a.logger.Error("task pool shutdown error", zap.Error(err))
	}

	if err := a.cache.Close(); err != nil {
		a.logger.Error("cache shutdown error", zap.Error(err))
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}

	a.logger.Info("graceful shutdown completed")
	_ = a.logger.Sync()
	return nil
}
