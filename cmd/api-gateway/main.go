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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/horarios/sgh-api/api/swagger"
	"github.com/horarios/sgh-api/internal/handler"
	internalmiddleware "github.com/horarios/sgh-api/internal/middleware"
	"github.com/horarios/sgh-api/internal/models"
	"github.com/horarios/sgh-api/internal/repository"
	"github.com/horarios/sgh-api/internal/service"
	"github.com/horarios/sgh-api/pkg/cache"
	"github.com/horarios/sgh-api/pkg/config"
	"github.com/horarios/sgh-api/pkg/database"
	"github.com/horarios/sgh-api/pkg/jobs"
	"github.com/horarios/sgh-api/pkg/logger"
	reqidmiddleware "github.com/horarios/sgh-api/pkg/middleware/requestid"
)

// @title SGH Schedule Generation API
// @version 1.0.0
// @description Automatic timetable generation for courses, teachers and their weekly availability.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// run reads go through the pool while the run transaction holds a connection
	if cfg.Database.MaxOpenConns > 0 && cfg.Database.MaxOpenConns < 2 {
		cfg.Database.MaxOpenConns = 2
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	redisClient, err = cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, history cache and notifications disabled", zap.Error(err))
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer func() {
		if err := cacheRepo.Close(); err != nil {
			logr.Warn("failed to close redis client", zap.Error(err))
		}
	}()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.History.CacheTTL, logr, cfg.History.CacheEnabled && redisClient != nil)

	courseRepo := repository.NewCourseRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	var notifier *service.GenerationNotifier
	if cfg.Notifications.Enabled && redisClient != nil {
		notifier = service.NewGenerationNotifier(cacheRepo, cfg.Notifications.Channel, metricsSvc, logr)
		queue := jobs.NewQueue("generation-notifications", notifier.Handle, jobs.QueueConfig{
			Workers:    cfg.Notifications.Workers,
			MaxRetries: cfg.Notifications.Retries,
			RetryDelay: cfg.Notifications.RetryDelay,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()
		notifier.Attach(queue)
	}

	generationSvc := service.NewScheduleGenerationService(
		service.GenerationRepositories{
			Courses:      courseRepo,
			Schedules:    scheduleRepo,
			Teachers:     teacherRepo,
			Subjects:     repository.NewSubjectRepository(db),
			Bindings:     repository.NewTeacherSubjectRepository(db),
			Availability: repository.NewTeacherAvailabilityRepository(db),
			Runs:         repository.NewGenerationRunRepository(db),
		},
		db,
		cacheSvc,
		notifier,
		metricsSvc,
		validate,
		logr,
		service.ScheduleGenerationConfig{
			MaxPeriodDays: cfg.Scheduler.MaxPeriodDays,
			LockKey:       cfg.Scheduler.LockKey,
			HistoryTTL:    cfg.History.CacheTTL,
		},
	)
	exportSvc := service.NewScheduleExportService(courseRepo, teacherRepo, scheduleRepo, logr)
	authSvc := service.NewAuthService(logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
	})

	generationHandler := handler.NewScheduleGenerationHandler(generationSvc)
	exportHandler := handler.NewScheduleExportHandler(exportSvc)
	checks := map[string]handler.Pinger{"postgres": db}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(cacheRepo.Ping)
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(authSvc))

	schedules := secured.Group("/schedules")
	{
		planners := schedules.Group("")
		planners.Use(internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator))
		planners.POST("/generate", generationHandler.Generate)
		planners.GET("/history", generationHandler.History)

		schedules.GET("/export/course/:id", exportHandler.ByCourse)
		schedules.GET("/export/teacher/:id", exportHandler.ByTeacher)
		schedules.GET("/export/courses", exportHandler.AllCourses)
		schedules.GET("/export/teachers", exportHandler.AllTeachers)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", reqidmiddleware.Header)
	cfg.ExposeHeaders = []string{reqidmiddleware.Header, "Content-Disposition"}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
