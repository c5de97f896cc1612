package contracts

import (
	"context"
	"time"
)

type ReportStorage interface {
	PutJSON(ctx context.Context, objectName string, payload []byte) (string, error)
	GetObjectUrlWithExpiryTime(ctx context.Context, objectName string, expiryTime time.Duration) (string, error)
}
