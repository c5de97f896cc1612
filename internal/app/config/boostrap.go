package config

import (
	"context"
	"database/sql"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type Bootstrap struct {
	Router         *chi.Mux
	Redis          *redis.Client
	SQLite         *sql.DB
	Logger         *zap.Logger
	RabbitMQ       *amqp091.Connection
	Minio          *minio.Client
	TracerProvider *sdktrace.TracerProvider
	InternalConfig *InternalConfig
	DriverConfig   *DriverConfig
	// WorkspaceStop if set will be called during Shutdown to flush and close open workspaces
	WorkspaceStop func(ctx context.Context)
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	if b.WorkspaceStop != nil {
		b.WorkspaceStop(ctx)
		log.Println("Successfully closed open workspaces")
	}

	if b.Redis != nil {
		err := b.Redis.Close()
		if err != nil {
			return err
		}
		log.Println("Successfully closing Redis")
	}

	if b.SQLite != nil {
		err := b.SQLite.Close()
		if err != nil {
			return err
		}
		log.Println("Successfully closing SQLite")
	}

	if b.RabbitMQ != nil {
		err := b.RabbitMQ.Close()
		if err != nil {
			return err
		}
		log.Println("Successfully closing RabbitMQ")
	}

	if b.TracerProvider != nil {
		err := b.TracerProvider.Shutdown(ctx)
		if err != nil {
			return err
		}
		log.Println("Successfully flushing traces")
	}

	b.Logger.Sync()
	log.Println("Successfully closing Logger")

	return nil
}
