package contracts

import (
	"context"
	"time"
)

type SubmissionEvent struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	PillarKey    string    `json:"pillar_key,omitempty"`
	RespondentID string    `json:"respondent_id,omitempty"`
	CompanyID    int64     `json:"company_id,omitempty"`
	Outcome      string    `json:"outcome"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type PublishEventInput struct {
	Event SubmissionEvent
}

type PublishEventOutput struct{}

// EventPublisher announces lock transitions to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, in *PublishEventInput) (*PublishEventOutput, error)
}
