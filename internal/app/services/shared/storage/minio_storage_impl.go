package storage

import (
	"bytes"
	"context"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/exceptions"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

type minioStorage struct {
	MinioClient *minio.Client
	BucketName  string
	Log         *zap.Logger
}

func NewMinioStorage(minioClient *minio.Client, bucketName string, logger *zap.Logger) contracts.ReportStorage {
	return &minioStorage{
		MinioClient: minioClient,
		BucketName:  bucketName,
		Log:         logger,
	}
}

func (m *minioStorage) PutJSON(ctx context.Context, objectName string, payload []byte) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	m.Log.Info("minioStorage.PutJSON called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingObjectNameKey, objectName),
	)

	_, err := m.MinioClient.PutObject(
		ctx,
		m.BucketName,
		objectName,
		bytes.NewReader(payload),
		int64(len(payload)),
		minio.PutObjectOptions{
			ContentType: constvars.MIMEApplicationJSON,
		},
	)
	if err != nil {
		m.Log.Error("minioStorage.PutJSON error uploading object",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrUploadObject(err)
	}

	m.Log.Info("minioStorage.PutJSON succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingObjectNameKey, objectName),
	)
	return objectName, nil
}

func (m *minioStorage) GetObjectUrlWithExpiryTime(ctx context.Context, objectName string, expiryTime time.Duration) (string, error) {
	presignedURL, err := m.MinioClient.PresignedGetObject(ctx, m.BucketName, objectName, expiryTime, nil)
	if err != nil {
		return "", exceptions.ErrPresignObject(err)
	}
	return presignedURL.String(), nil
}
