package config

type InternalConfig struct {
	App      App
	HICM     AppHICM
	RabbitMQ AppRabbitMQ
	Minio    AppMinio
}

type App struct {
	Env                        string `validate:"required"`
	Port                       string `validate:"required"`
	Version                    string `validate:"required"`
	Address                    string
	Timezone                   string `validate:"required"`
	EndpointPrefix             string `validate:"required"`
	MaxRequests                int    `validate:"gt=0"`
	ShutdownTimeoutInSeconds   int    `validate:"gt=0"`
	RequestBodyLimitInMegabyte int    `validate:"gt=0"`
	HandlerTimeoutInSeconds    int    `validate:"gt=0"`
}

// AppHICM configures the outbound HICM backend and the assessment workspace.
type AppHICM struct {
	BaseUrl                        string  `validate:"required,url"`
	AuditBaseUrl                   string  `validate:"required,url"`
	PublicBaseUrl                  string  `validate:"required,url"`
	RequestTimeoutInSeconds        int     `validate:"gt=0"`
	RateLimitPerSecond             float64 `validate:"gt=0"`
	RateLimitBurst                 int     `validate:"gt=0"`
	AutosaveDebounceInMilliseconds int     `validate:"gt=0"`
	CacheDriver                    string  `validate:"required,oneof=memory redis sqlite"`
	CacheTTLInHours                int     `validate:"gte=0"`
	LevelBandsFile                 string
}

type AppRabbitMQ struct {
	EventQueue string
}

type AppMinio struct {
	BucketName                      string
	PresignedUrlObjectExpiryInHours int `validate:"gte=0"`
}
