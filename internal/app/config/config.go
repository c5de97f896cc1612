package config

import (
	"hicm-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		SQLite: SQLite{
			Path: utils.GetEnvString("SQLITE_PATH", "hicm-cache.db"),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logs/hicm.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logs/hicm_error.log"),
			MaxSizeInMB:         utils.GetEnvInt("LOGGER_MAX_SIZE_IN_MB", 100),
			MaxBackups:          utils.GetEnvInt("LOGGER_MAX_BACKUPS", 5),
			MaxAgeInDays:        utils.GetEnvInt("LOGGER_MAX_AGE_IN_DAYS", 30),
			Compress:            utils.GetEnvBool("LOGGER_COMPRESS", true),
		},
		RabbitMQ: RabbitMQ{
			Enabled:  utils.GetEnvBool("RABBITMQ_ENABLED", false),
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Enabled:  utils.GetEnvBool("MINIO_ENABLED", false),
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "minioadmin"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "minioadmin"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
		Jaeger: Jaeger{
			Enabled:           utils.GetEnvBool("JAEGER_ENABLED", false),
			CollectorEndpoint: utils.GetEnvString("JAEGER_COLLECTOR_ENDPOINT", "http://localhost:14268/api/traces"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", ":8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			Address:                    utils.GetEnvString("APP_ADDRESS", "localhost"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "Asia/Bangkok"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 20),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 20),
			HandlerTimeoutInSeconds:    utils.GetEnvInt("APP_HANDLER_TIMEOUT_IN_SECONDS", 30),
		},
		HICM: AppHICM{
			BaseUrl:                        utils.GetEnvString("HICM_API_BASE_URL", "http://localhost:8000/api/company"),
			AuditBaseUrl:                   utils.GetEnvString("HICM_AUDIT_BASE_URL", "http://localhost:8000/api/audit"),
			PublicBaseUrl:                  utils.GetEnvString("HICM_PUBLIC_BASE_URL", "http://localhost:8000"),
			RequestTimeoutInSeconds:        utils.GetEnvInt("HICM_REQUEST_TIMEOUT_SECONDS", 15),
			RateLimitPerSecond:             utils.GetEnvFloat("HICM_RATE_LIMIT_PER_SECOND", 20),
			RateLimitBurst:                 utils.GetEnvInt("HICM_RATE_LIMIT_BURST", 40),
			AutosaveDebounceInMilliseconds: utils.GetEnvInt("HICM_AUTOSAVE_DEBOUNCE_MS", 400),
			CacheDriver:                    utils.GetEnvString("HICM_CACHE_DRIVER", "memory"),
			CacheTTLInHours:                utils.GetEnvInt("HICM_CACHE_TTL_IN_HOURS", 0),
			LevelBandsFile:                 utils.GetEnvString("HICM_LEVEL_BANDS_FILE", ""),
		},
		RabbitMQ: AppRabbitMQ{
			EventQueue: utils.GetEnvString("APP_RABBITMQ_EVENT_QUEUE", "hicm.submission.events"),
		},
		Minio: AppMinio{
			BucketName:                      utils.GetEnvString("APP_MINIO_BUCKET_NAME", "hicm-reports"),
			PresignedUrlObjectExpiryInHours: utils.GetEnvInt("APP_MINIO_PRESIGNED_URL_EXPIRY_IN_HOURS", 24),
		},
	}
}

func (c *InternalConfig) Validate() error {
	return utils.ValidateStruct(c)
}
