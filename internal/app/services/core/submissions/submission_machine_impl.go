package submissions

import (
	"context"
	"errors"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/app/drivers/monitoring"
	"hicm-service/internal/app/models"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/dto/requests"
	"hicm-service/internal/pkg/exceptions"
	"hicm-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

const submissionKindPillar = "pillar"

type Options struct {
	PillarKey    string
	RespondentID string
	Clock        func() time.Time
}

// submissionMachine moves one pillar from open to submitted. Submitted is
// terminal and a repeated submit is a local no-op.
type submissionMachine struct {
	submitMu sync.Mutex
	mu       sync.Mutex
	state    models.PillarSubmission

	respondentID     string
	clock            func() time.Time
	Flusher          contracts.Flusher
	AssessmentClient contracts.AssessmentClient
	Publisher        contracts.EventPublisher
	Tokens           contracts.TokenSource
	Log              *zap.Logger
}

func NewSubmissionMachine(
	opts Options,
	flusher contracts.Flusher,
	assessmentClient contracts.AssessmentClient,
	publisher contracts.EventPublisher,
	tokens contracts.TokenSource,
	logger *zap.Logger,
) contracts.SubmissionMachine {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &submissionMachine{
		state: models.PillarSubmission{
			PillarKey: opts.PillarKey,
			State:     models.SubmissionStateOpen,
		},
		respondentID:     opts.RespondentID,
		clock:            clock,
		Flusher:          flusher,
		AssessmentClient: assessmentClient,
		Publisher:        publisher,
		Tokens:           tokens,
		Log:              logger,
	}
}

func (m *submissionMachine) Locked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Locked
}

// Restore applies the backend's submit status on load.
func (m *submissionMachine) Restore(submitted bool) {
	if !submitted {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Locked = true
	m.state.State = models.SubmissionStateSubmitted
}

func (m *submissionMachine) Snapshot() models.PillarSubmission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *submissionMachine) snapshotLocked() models.PillarSubmission {
	snapshot := m.state
	if m.state.SubmittedAt != nil {
		submittedAt := *m.state.SubmittedAt
		snapshot.SubmittedAt = &submittedAt
	}
	return snapshot
}

func (m *submissionMachine) Submit(ctx context.Context) (models.PillarSubmission, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	m.Log.Info("submissionMachine.Submit called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPillarKey, m.state.PillarKey),
		zap.String(constvars.LoggingRespondentIDKey, m.respondentID),
	)

	m.submitMu.Lock()
	defer m.submitMu.Unlock()

	if m.Locked() {
		m.Log.Info("submissionMachine.Submit already locked, nothing to do",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return m.Snapshot(), nil
	}

	// The backend refuses auto-save once it holds the submission. The submit
	// call below then reports AlreadyDone and the lock still lands.
	if err := m.Flusher.Flush(ctx); err != nil && !exceptions.IsAlreadySubmitted(err) {
		m.Log.Error("submissionMachine.Submit error flushing draft",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return m.Snapshot(), err
	}

	request := &requests.HICMSubmit{}
	if userID, err := utils.ParseID(m.respondentID); err == nil {
		request.UserID = &userID
	}

	outcome, err := m.AssessmentClient.Submit(ctx, m.state.PillarKey, m.Tokens.Token(), request)
	monitoring.SubmissionCounter.WithLabelValues(submissionKindPillar, outcome.String()).Inc()
	if !outcome.Locks() {
		if err == nil {
			err = exceptions.ErrHICMRequest(errors.New("submit was not accepted"), 0, outcome.String())
		}
		m.Log.Error("submissionMachine.Submit error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return m.Snapshot(), err
	}

	m.mu.Lock()
	submittedAt := m.clock()
	m.state.Locked = true
	m.state.State = models.SubmissionStateSubmitted
	m.state.SubmittedAt = &submittedAt
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	m.publish(ctx, outcome, submittedAt)

	m.Log.Info("submissionMachine.Submit succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOutcomeKey, outcome.String()),
		zap.Time(constvars.LoggingSubmittedAtKey, submittedAt),
	)
	return snapshot, nil
}

// publish announces the lock. A broker failure does not undo the lock.
func (m *submissionMachine) publish(ctx context.Context, outcome models.Outcome, occurredAt time.Time) {
	if m.Publisher == nil {
		return
	}

	_, err := m.Publisher.Publish(ctx, &contracts.PublishEventInput{
		Event: contracts.SubmissionEvent{
			ID:           utils.GenerateEventID(),
			Type:         constvars.EventTypeSubmissionLocked,
			PillarKey:    m.state.PillarKey,
			RespondentID: m.respondentID,
			Outcome:      outcome.String(),
			OccurredAt:   occurredAt,
		},
	})
	if err != nil {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		m.Log.Warn("submissionMachine.publish error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
}
