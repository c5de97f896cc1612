package eventqueue

import (
	"context"
	"errors"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/exceptions"
	"sync"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// rabbitMQPublisher publishes submission events to a durable queue and
// waits for the broker confirm before returning.
type rabbitMQPublisher struct {
	ch        *amqp.Channel
	queueName string
	confirms  chan amqp.Confirmation
	mu        sync.Mutex
	Log       *zap.Logger
}

func NewRabbitMQPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (contracts.EventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	)
	if err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &rabbitMQPublisher{
		ch:        ch,
		queueName: queueName,
		confirms:  ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
		Log:       logger,
	}, nil
}

func (p *rabbitMQPublisher) Publish(ctx context.Context, in *contracts.PublishEventInput) (*contracts.PublishEventOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	p.Log.Info("rabbitMQPublisher.Publish called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventTypeKey, in.Event.Type),
		zap.String(constvars.LoggingQueueNameKey, p.queueName),
	)

	body, err := json.Marshal(in.Event)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    in.Event.ID,
		Type:         in.Event.Type,
		Timestamp:    in.Event.OccurredAt,
	}

	if err := p.ch.PublishWithContext(ctx, "", p.queueName, false, false, msg); err != nil {
		p.Log.Error("rabbitMQPublisher.Publish error publishing event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrPublishEvent(err)
	}

	select {
	case confirmed := <-p.confirms:
		if !confirmed.Ack {
			return nil, exceptions.ErrPublishNotAcked(errors.New("broker nacked event"))
		}
	case <-ctx.Done():
		return nil, exceptions.ErrPublishEvent(ctx.Err())
	}

	p.Log.Info("rabbitMQPublisher.Publish succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventTypeKey, in.Event.Type),
	)
	return &contracts.PublishEventOutput{}, nil
}
