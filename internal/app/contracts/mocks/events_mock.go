package mocks

import (
	"context"
	"hicm-service/internal/app/contracts"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, in *contracts.PublishEventInput) (*contracts.PublishEventOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*contracts.PublishEventOutput)
	return out, args.Error(1)
}

type MockReportStorage struct {
	mock.Mock
}

func (m *MockReportStorage) PutJSON(ctx context.Context, objectName string, payload []byte) (string, error) {
	args := m.Called(ctx, objectName, payload)
	return args.String(0), args.Error(1)
}

func (m *MockReportStorage) GetObjectUrlWithExpiryTime(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}
