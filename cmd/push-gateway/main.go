package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/lms-content-push/api/swagger"
	"github.com/noah-isme/lms-content-push/internal/handler"
	"github.com/noah-isme/lms-content-push/internal/middleware"
	"github.com/noah-isme/lms-content-push/internal/repository"
	"github.com/noah-isme/lms-content-push/internal/service"
	"github.com/noah-isme/lms-content-push/pkg/cache"
	"github.com/noah-isme/lms-content-push/pkg/config"
	"github.com/noah-isme/lms-content-push/pkg/database"
	"github.com/noah-isme/lms-content-push/pkg/jobs"
	"github.com/noah-isme/lms-content-push/pkg/logger"
	corsmiddleware "github.com/noah-isme/lms-content-push/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/lms-content-push/pkg/middleware/requestid"
)

// @title LMS Content Push API
// @version 1.0.0
// @description Selective learner content pushing with xAPI statements
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, lookup caching disabled", "error", err)
		redisClient = nil
	}

	pushRepo := repository.NewPushRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	destRepo := repository.NewDestinationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	filterSvc := service.NewFilterService()
	statementSvc := service.NewStatementService(cfg.Push.StatementNamespace)
	notifier := service.NewStatusNotifier()
	adapters := service.NewAdapterRegistry(&http.Client{Timeout: cfg.Push.HTTPTimeout})

	var pushSvc *service.PushService
	queue := jobs.NewQueue("pushes", func(ctx context.Context, job jobs.Job) error {
		return pushSvc.Process(ctx, job)
	}, jobs.QueueConfig{
		Workers:    cfg.Push.Workers,
		BufferSize: cfg.Push.QueueSize,
		Logger:     logr,
	})

	pushSvc = service.NewPushService(
		pushRepo, destRepo, ruleRepo, cacheRepo,
		filterSvc, statementSvc, adapters, notifier, queue, metricsSvc, validator.New(), logr,
		service.PushServiceConfig{
			MaxRetries:      cfg.Push.MaxRetries,
			RetryBackoff:    cfg.Push.RetryBackoff,
			RetryBackoffMax: cfg.Push.RetryBackoffMax,
			LookupCacheTTL:  cfg.Push.DestinationCacheTTL,
		},
	)
	ruleSvc := service.NewRuleService(ruleRepo, cacheRepo, filterSvc, logr)
	destSvc := service.NewDestinationService(destRepo, ruleRepo, cacheRepo, logr)

	pushHandler := handler.NewPushHandler(pushSvc, notifier, logr)
	filterHandler := handler.NewFilterHandler(ruleSvc)
	destHandler := handler.NewDestinationHandler(destSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.Start(ctx)
	defer queue.Stop()

	if err := pushSvc.RecoverPending(ctx); err != nil {
		logr.Sugar().Warnw("failed to recover pending pushes", "error", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Auth(cfg.Auth))
	{
		api.POST("/pushes", pushHandler.Submit)
		api.POST("/pushes/drive", pushHandler.SubmitFromDrive)
		api.GET("/pushes", pushHandler.List)
		api.GET("/pushes/:id", pushHandler.Status)
		api.GET("/pushes/:id/events", pushHandler.Events)

		api.POST("/filter-rules", filterHandler.Create)
		api.GET("/filter-rules", filterHandler.List)
		api.POST("/filter-rules/test", filterHandler.Test)

		api.POST("/destinations", destHandler.Create)
		api.GET("/destinations", destHandler.List)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
}
