package eventqueue

import (
	"context"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

// logPublisher records events in the application log when no broker is
// configured.
type logPublisher struct {
	Log *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) contracts.EventPublisher {
	return &logPublisher{Log: logger}
}

func (p *logPublisher) Publish(ctx context.Context, in *contracts.PublishEventInput) (*contracts.PublishEventOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	p.Log.Info("logPublisher.Publish event",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventTypeKey, in.Event.Type),
		zap.String(constvars.LoggingPillarKey, in.Event.PillarKey),
		zap.String(constvars.LoggingRespondentIDKey, in.Event.RespondentID),
		zap.Int64(constvars.LoggingCompanyIDKey, in.Event.CompanyID),
		zap.String(constvars.LoggingOutcomeKey, in.Event.Outcome),
	)
	return &contracts.PublishEventOutput{}, nil
}
