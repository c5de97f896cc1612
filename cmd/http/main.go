package main

import (
	"context"
	"hicm-service/internal/app/config"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/app/delivery/http/controllers"
	"hicm-service/internal/app/delivery/http/middlewares"
	"hicm-service/internal/app/delivery/http/routers"
	"hicm-service/internal/app/drivers/database"
	"hicm-service/internal/app/drivers/logger"
	"hicm-service/internal/app/drivers/messaging"
	"hicm-service/internal/app/drivers/monitoring"
	"hicm-service/internal/app/drivers/storage"
	"hicm-service/internal/app/drivers/tracing"
	"hicm-service/internal/app/models"
	"hicm-service/internal/app/services/core/questionnaires"
	"hicm-service/internal/app/services/core/reports"
	"hicm-service/internal/app/services/core/scoring"
	"hicm-service/internal/app/services/core/session"
	hicmapi "hicm-service/internal/app/services/hicm_api"
	"hicm-service/internal/app/services/shared/eventqueue"
	"hicm-service/internal/app/services/shared/kvstore"
	"hicm-service/internal/app/services/shared/scheduler"
	reportstorage "hicm-service/internal/app/services/shared/storage"
	"hicm-service/internal/pkg/constvars"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Version sets the default build version
var Version = "develop"

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()
	if err := internalConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if internalConfig.App.Version == "" {
		internalConfig.App.Version = Version
	}

	logger := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		logger.Fatal("Error loading location", zap.Error(err))
	}
	time.Local = location

	monitoring.Init()

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		Logger:         logger,
		TracerProvider: tracing.NewTracerProvider(driverConfig, internalConfig),
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	switch internalConfig.HICM.CacheDriver {
	case constvars.CacheDriverRedis:
		bootstrap.Redis = database.NewRedisClient(driverConfig)
	case constvars.CacheDriverSQLite:
		bootstrap.SQLite = database.NewSQLite(driverConfig)
	}
	if driverConfig.RabbitMQ.Enabled {
		bootstrap.RabbitMQ = messaging.NewRabbitMQ(driverConfig)
	}
	if driverConfig.Minio.Enabled {
		bootstrap.Minio = storage.NewMinio(driverConfig, internalConfig)
	}

	bootstrapingTheApp(bootstrap)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: bootstrap.Router,
	}

	go func() {
		logger.Info("Server started", zap.String("port", internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logger.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("Error releasing resources: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) {
	cfg := bootstrap.InternalConfig
	logger := bootstrap.Logger

	// Cache
	var cache contracts.KeyValueStore
	switch {
	case bootstrap.Redis != nil:
		cache = kvstore.NewRedisKeyValueStore(bootstrap.Redis)
	case bootstrap.SQLite != nil:
		cache = kvstore.NewSQLiteKeyValueStore(bootstrap.SQLite)
	default:
		cache = kvstore.NewMemoryKeyValueStore()
	}
	logger.Info("Cache driver selected", zap.String(constvars.LoggingCacheDriverKey, cfg.HICM.CacheDriver))

	// Events
	publisher := eventqueue.NewLogPublisher(logger)
	if bootstrap.RabbitMQ != nil {
		rabbitPublisher, err := eventqueue.NewRabbitMQPublisher(bootstrap.RabbitMQ, cfg.RabbitMQ.EventQueue, logger)
		if err != nil {
			logger.Fatal("Failed to initialize event publisher", zap.Error(err))
		}
		publisher = rabbitPublisher
	}

	// Report archive
	var archive contracts.ReportStorage
	if bootstrap.Minio != nil {
		archive = reportstorage.NewMinioStorage(bootstrap.Minio, cfg.Minio.BucketName, logger)
	}

	// Scoring
	var bands []models.LevelBand
	if cfg.HICM.LevelBandsFile != "" {
		loaded, err := scoring.LoadLevelBands(cfg.HICM.LevelBandsFile)
		if err != nil {
			logger.Fatal("Failed to load level bands", zap.Error(err))
		}
		bands = loaded
	}
	aggregator, err := scoring.NewScoringAggregator(bands)
	if err != nil {
		logger.Fatal("Failed to initialize scoring", zap.Error(err))
	}

	// Backend clients share one outbound budget
	limiter := rate.NewLimiter(rate.Limit(cfg.HICM.RateLimitPerSecond), cfg.HICM.RateLimitBurst)
	requestTimeout := time.Duration(cfg.HICM.RequestTimeoutInSeconds) * time.Second
	companyOptions := hicmapi.Options{BaseUrl: cfg.HICM.BaseUrl, Timeout: requestTimeout, Limiter: limiter}
	auditOptions := hicmapi.Options{BaseUrl: cfg.HICM.AuditBaseUrl, Timeout: requestTimeout, Limiter: limiter}

	assessmentClient := hicmapi.NewAssessmentClient(companyOptions, logger)
	evidenceClient := hicmapi.NewEvidenceClient(companyOptions, logger)
	summaryClient := hicmapi.NewSummaryClient(companyOptions, logger)
	auditClient := hicmapi.NewAuditClient(auditOptions, logger)

	cacheTTL := time.Duration(cfg.HICM.CacheTTLInHours) * time.Hour

	// Sessions
	sessions := session.NewSessionManager(
		session.Options{
			Debounce:      time.Duration(cfg.HICM.AutosaveDebounceInMilliseconds) * time.Millisecond,
			DraftCacheTTL: cacheTTL,
			PublicBaseUrl: cfg.HICM.PublicBaseUrl,
		},
		session.Dependencies{
			Questionnaires:   questionnaires.NewQuestionnaireUsecase(assessmentClient, cache, cacheTTL, logger),
			AssessmentClient: assessmentClient,
			EvidenceClient:   evidenceClient,
			AuditClient:      auditClient,
			Cache:            cache,
			Scheduler:        scheduler.NewDebounceScheduler(logger),
			Aggregator:       aggregator,
			Publisher:        publisher,
		},
		logger,
	)
	bootstrap.WorkspaceStop = sessions.Shutdown

	// Reports
	reportUsecase := reports.NewReportUsecase(
		reports.Options{CertificateURLExpiry: time.Duration(cfg.Minio.PresignedUrlObjectExpiryInHours) * time.Hour},
		summaryClient,
		aggregator,
		archive,
		publisher,
		logger,
	)

	// Controllers
	handlerTimeout := time.Duration(cfg.App.HandlerTimeoutInSeconds) * time.Second
	workspaceController := controllers.NewWorkspaceController(logger, sessions, aggregator, handlerTimeout)

	routers.SetupRoutes(bootstrap.Router, cfg, middlewares.NewMiddlewares(logger, cfg), routers.Controllers{
		Workspace: workspaceController,
		Evidence:  controllers.NewEvidenceController(logger, workspaceController),
		Summary:   controllers.NewSummaryController(logger, reportUsecase, handlerTimeout),
		Audit:     controllers.NewAuditController(logger, sessions, reportUsecase, handlerTimeout),
		Health:    controllers.NewHealthController(cfg.App.Version),
	})
}
