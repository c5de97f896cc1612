package config

type (
	DriverConfig struct {
		Redis    Redis
		SQLite   SQLite
		Logger   Logger
		RabbitMQ RabbitMQ
		Minio    Minio
		Jaeger   Jaeger
	}
	Redis struct {
		Host     string
		Port     string
		Password string
		DB       int
	}
	SQLite struct {
		Path string
	}
	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
		MaxSizeInMB         int
		MaxBackups          int
		MaxAgeInDays        int
		Compress            bool
	}
	RabbitMQ struct {
		Enabled  bool
		Port     string
		Host     string
		Username string
		Password string
	}
	Minio struct {
		Enabled  bool
		Port     string
		Host     string
		Username string
		Password string
		UseSSL   bool
	}
	Jaeger struct {
		Enabled           bool
		CollectorEndpoint string
	}
)
