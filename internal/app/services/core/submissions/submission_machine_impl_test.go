package submissions

import (
	"context"
	"errors"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/app/contracts/mocks"
	"hicm-service/internal/app/models"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/dto/requests"
	"hicm-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flushFunc func(ctx context.Context) error

func (f flushFunc) Flush(ctx context.Context) error { return f(ctx) }

var fixedNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

type fixture struct {
	machine   contracts.SubmissionMachine
	client    *mocks.MockAssessmentClient
	publisher *mocks.MockEventPublisher
	flushes   int
	flushErr  error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		client:    new(mocks.MockAssessmentClient),
		publisher: new(mocks.MockEventPublisher),
	}
	f.machine = NewSubmissionMachine(
		Options{
			PillarKey:    constvars.PillarKeyIndustrialSafety,
			RespondentID: "42",
			Clock:        func() time.Time { return fixedNow },
		},
		flushFunc(func(ctx context.Context) error {
			f.flushes++
			return f.flushErr
		}),
		f.client,
		f.publisher,
		mocks.NewStaticToken("tok"),
		zap.NewNop(),
	)
	return f
}

func TestSubmissionMachine_Submit(t *testing.T) {
	t.Run("success locks and publishes", func(t *testing.T) {
		f := newFixture(t)
		f.client.On("Submit", mock.Anything, constvars.PillarKeyIndustrialSafety, "tok", mock.MatchedBy(func(r *requests.HICMSubmit) bool {
			return r.UserID != nil && *r.UserID == 42
		})).Return(models.OutcomeSuccess, nil).Once()
		f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(in *contracts.PublishEventInput) bool {
			return in.Event.Type == constvars.EventTypeSubmissionLocked && in.Event.Outcome == "success"
		})).Return(&contracts.PublishEventOutput{}, nil).Once()

		snapshot, err := f.machine.Submit(context.Background())
		require.NoError(t, err)
		assert.True(t, snapshot.Locked)
		assert.Equal(t, models.SubmissionStateSubmitted, snapshot.State)
		require.NotNil(t, snapshot.SubmittedAt)
		assert.Equal(t, fixedNow, *snapshot.SubmittedAt)
		assert.True(t, f.machine.Locked())
		assert.Equal(t, 1, f.flushes)
		f.client.AssertExpectations(t)
		f.publisher.AssertExpectations(t)
	})

	t.Run("second submit is a no-op", func(t *testing.T) {
		f := newFixture(t)
		f.client.On("Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(models.OutcomeSuccess, nil).Once()
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(&contracts.PublishEventOutput{}, nil).Once()

		first, err := f.machine.Submit(context.Background())
		require.NoError(t, err)
		second, err := f.machine.Submit(context.Background())
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, f.flushes)
		f.client.AssertNumberOfCalls(t, "Submit", 1)
	})

	t.Run("already submitted counts as success", func(t *testing.T) {
		f := newFixture(t)
		f.client.On("Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(models.OutcomeAlreadyDone, nil).Once()
		f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(in *contracts.PublishEventInput) bool {
			return in.Event.Outcome == "already_done"
		})).Return(&contracts.PublishEventOutput{}, nil).Once()

		snapshot, err := f.machine.Submit(context.Background())
		require.NoError(t, err)
		assert.True(t, snapshot.Locked)
	})

	t.Run("failure stays open", func(t *testing.T) {
		f := newFixture(t)
		backendErr := exceptions.ErrHICMRequest(nil, constvars.StatusInternalServerError, "boom")
		f.client.On("Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(models.OutcomeFailure, backendErr).Once()

		snapshot, err := f.machine.Submit(context.Background())
		require.Error(t, err)
		assert.Equal(t, constvars.StatusBadGateway, exceptions.StatusCodeOf(err))
		assert.False(t, snapshot.Locked)
		assert.Equal(t, models.SubmissionStateOpen, snapshot.State)
		assert.Nil(t, snapshot.SubmittedAt)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("flush failure aborts before submit", func(t *testing.T) {
		f := newFixture(t)
		f.flushErr = errors.New("autosave failed")

		_, err := f.machine.Submit(context.Background())
		require.Error(t, err)
		assert.False(t, f.machine.Locked())
		f.client.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("flush refused as already submitted still locks", func(t *testing.T) {
		f := newFixture(t)
		f.flushErr = exceptions.ErrHICMAlreadySubmitted("Assessment already submitted")
		f.client.On("Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(models.OutcomeAlreadyDone, nil).Once()
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(&contracts.PublishEventOutput{}, nil).Once()

		snapshot, err := f.machine.Submit(context.Background())
		require.NoError(t, err)
		assert.True(t, snapshot.Locked)
		assert.Equal(t, models.SubmissionStateSubmitted, snapshot.State)
		f.client.AssertExpectations(t)
	})

	t.Run("publish failure keeps the lock", func(t *testing.T) {
		f := newFixture(t)
		f.client.On("Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(models.OutcomeSuccess, nil).Once()
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("broker down")).Once()

		snapshot, err := f.machine.Submit(context.Background())
		require.NoError(t, err)
		assert.True(t, snapshot.Locked)
	})
}

func TestSubmissionMachine_Restore(t *testing.T) {
	f := newFixture(t)

	f.machine.Restore(false)
	assert.False(t, f.machine.Locked())

	f.machine.Restore(true)
	assert.True(t, f.machine.Locked())

	snapshot, err := f.machine.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStateSubmitted, snapshot.State)
	assert.Equal(t, 0, f.flushes)
	f.client.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmissionMachine_AnonymousRespondentSendsNoUserID(t *testing.T) {
	client := new(mocks.MockAssessmentClient)
	machine := NewSubmissionMachine(
		Options{PillarKey: constvars.PillarKeyHealthPromotion, RespondentID: constvars.AnonymousRespondent},
		flushFunc(func(context.Context) error { return nil }),
		client,
		nil,
		mocks.NewStaticToken(""),
		zap.NewNop(),
	)
	client.On("Submit", mock.Anything, constvars.PillarKeyHealthPromotion, "", mock.MatchedBy(func(r *requests.HICMSubmit) bool {
		return r.UserID == nil
	})).Return(models.OutcomeSuccess, nil).Once()

	snapshot, err := machine.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, snapshot.Locked)
	assert.WithinDuration(t, time.Now(), *snapshot.SubmittedAt, time.Minute)
}
