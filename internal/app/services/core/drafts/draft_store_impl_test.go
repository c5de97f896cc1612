package drafts

import (
	"context"
	"errors"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/app/contracts/mocks"
	"hicm-service/internal/app/models"
	"hicm-service/internal/app/services/shared/kvstore"
	"hicm-service/internal/app/services/shared/scheduler"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/dto/requests"
	"hicm-service/internal/pkg/dto/responses"
	"hicm-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testPillar() models.Pillar {
	return models.Pillar{
		Key: constvars.PillarKeyHealthPromotion,
		Questions: []models.Question{
			{ID: 1, Title: "Q1", Choices: []models.Choice{{ID: 11, Score: 0}, {ID: 12, Score: 20}}},
			{ID: 2, Title: "Q2", Choices: []models.Choice{{ID: 21, Score: 0}, {ID: 22, Score: 20}}},
		},
	}
}

type fixture struct {
	store     contracts.DraftStore
	client    *mocks.MockAssessmentClient
	cache     contracts.KeyValueStore
	scheduler *scheduler.ManualScheduler
	lock      *mocks.LockFlag
}

func newFixture(t *testing.T, cache contracts.KeyValueStore) *fixture {
	t.Helper()
	if cache == nil {
		cache = kvstore.NewMemoryKeyValueStore()
	}
	f := &fixture{
		client:    new(mocks.MockAssessmentClient),
		cache:     cache,
		scheduler: scheduler.NewManualScheduler(),
		lock:      &mocks.LockFlag{},
	}
	f.store = NewDraftStore(
		Options{PillarKey: constvars.PillarKeyHealthPromotion, RespondentID: "42", Debounce: 400 * time.Millisecond},
		f.client,
		f.cache,
		f.scheduler,
		mocks.NewStaticToken("tok"),
		f.lock,
		zap.NewNop(),
	)
	f.store.Restore(testPillar(), models.NewDraft())
	return f
}

func TestDraftStore_DebounceCoalescing(t *testing.T) {
	f := newFixture(t, nil)

	var pushed *requests.HICMAutoSave
	f.client.On("AutoSave", mock.Anything, constvars.PillarKeyHealthPromotion, "tok", mock.AnythingOfType("*requests.HICMAutoSave")).
		Run(func(args mock.Arguments) {
			pushed = args.Get(3).(*requests.HICMAutoSave)
		}).
		Return(&responses.HICMAutoSave{Saved: 2}, nil).Once()

	require.NoError(t, f.store.RecordAnswer(1, 11))
	require.NoError(t, f.store.RecordAnswer(1, 12))
	require.NoError(t, f.store.RecordComment(2, "evidence attached"))

	assert.Equal(t, 3, f.scheduler.Scheduled())
	assert.Equal(t, 1, f.scheduler.Pending())
	delay, ok := f.scheduler.Delay("persist:42:pillar-1")
	require.True(t, ok)
	assert.Equal(t, 400*time.Millisecond, delay)

	assert.Equal(t, 1, f.scheduler.FireAll())
	f.client.AssertNumberOfCalls(t, "AutoSave", 1)

	require.NotNil(t, pushed)
	require.Len(t, pushed.Items, 2)
	assert.Equal(t, int64(12), *pushed.Items[0].EvaluationCriteriaID)
	assert.Equal(t, "evidence attached", *pushed.Items[1].PerformanceResults)
	require.NotNil(t, pushed.UserID)
	assert.Equal(t, int64(42), *pushed.UserID)

	cached, err := f.cache.Get(context.Background(), "company-assessment-42-pillar-1")
	require.NoError(t, err)
	assert.Contains(t, cached, `"answers"`)
}

func TestDraftStore_RemoteFailureIsSwallowed(t *testing.T) {
	f := newFixture(t, nil)
	f.client.On("AutoSave", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	require.NoError(t, f.store.RecordAnswer(1, 12))
	f.scheduler.FireAll()

	assert.Equal(t, int64(12), f.store.Snapshot().Answers[1])
	cached, err := f.cache.Get(context.Background(), CacheKey("42", constvars.PillarKeyHealthPromotion))
	require.NoError(t, err)
	assert.NotEmpty(t, cached)
}

func TestDraftStore_EmptyDraftSkipsRemote(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.store.RecordComment(1, "   "))
	f.scheduler.FireAll()
	require.NoError(t, f.store.Flush(context.Background()))

	f.client.AssertNotCalled(t, "AutoSave", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDraftStore_CacheRoundTripDropsStaleQuestions(t *testing.T) {
	cache := kvstore.NewMemoryKeyValueStore()

	writer := newFixture(t, cache)
	writer.client.On("AutoSave", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("offline"))
	require.NoError(t, writer.store.RecordAnswer(1, 12))
	require.NoError(t, writer.store.RecordAnswer(2, 21))
	require.NoError(t, writer.store.RecordComment(2, "note"))
	writer.scheduler.FireAll()

	reader := newFixture(t, cache)
	reader.client.On("FindDraft", mock.Anything, constvars.PillarKeyHealthPromotion, "42", "tok").Return(nil, errors.New("offline"))

	shrunk := testPillar()
	shrunk.Questions = shrunk.Questions[:1]

	draft, source := reader.store.LoadDraft(context.Background(), shrunk)
	assert.Equal(t, models.DraftSourceLocal, source)
	assert.Equal(t, map[int64]int64{1: 12}, draft.Answers)
	assert.Empty(t, draft.Comments)
}

func TestDraftStore_FetchDraft(t *testing.T) {
	t.Run("remote wins", func(t *testing.T) {
		f := newFixture(t, nil)
		choiceID := int64(22)
		comment := "remote"
		f.client.On("FindDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&responses.HICMDraft{
			Items: []models.DraftItem{{AssessmentID: 2, EvaluationCriteriaID: &choiceID, PerformanceResults: &comment}},
		}, nil)

		draft, source := f.store.LoadDraft(context.Background(), testPillar())
		assert.Equal(t, models.DraftSourceRemote, source)
		assert.Equal(t, int64(22), draft.Answers[2])
		assert.Equal(t, "remote", draft.Comments[2])
	})

	t.Run("unsynced local edits win over remote", func(t *testing.T) {
		cache := kvstore.NewMemoryKeyValueStore()

		writer := newFixture(t, cache)
		writer.client.On("AutoSave", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("offline"))
		require.NoError(t, writer.store.RecordAnswer(1, 12))
		writer.scheduler.FireAll()

		reader := newFixture(t, cache)
		stale := int64(11)
		reader.client.On("FindDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&responses.HICMDraft{
			Items: []models.DraftItem{{AssessmentID: 1, EvaluationCriteriaID: &stale}},
		}, nil)

		draft, source := reader.store.FetchDraft(context.Background())
		assert.Equal(t, models.DraftSourceLocal, source)
		assert.Equal(t, int64(12), draft.Answers[1])
		reader.client.AssertNotCalled(t, "FindDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("synced cache yields to remote", func(t *testing.T) {
		cache := kvstore.NewMemoryKeyValueStore()

		writer := newFixture(t, cache)
		writer.client.On("AutoSave", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&responses.HICMAutoSave{Saved: 1}, nil)
		require.NoError(t, writer.store.RecordAnswer(1, 12))
		writer.scheduler.FireAll()

		reader := newFixture(t, cache)
		newer := int64(11)
		reader.client.On("FindDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&responses.HICMDraft{
			Items: []models.DraftItem{{AssessmentID: 1, EvaluationCriteriaID: &newer}},
		}, nil).Once()

		draft, source := reader.store.FetchDraft(context.Background())
		assert.Equal(t, models.DraftSourceRemote, source)
		assert.Equal(t, int64(11), draft.Answers[1])
	})

	t.Run("synced cache covers a remote outage", func(t *testing.T) {
		cache := kvstore.NewMemoryKeyValueStore()

		writer := newFixture(t, cache)
		writer.client.On("AutoSave", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&responses.HICMAutoSave{Saved: 1}, nil)
		require.NoError(t, writer.store.RecordAnswer(2, 22))
		require.NoError(t, writer.store.Flush(context.Background()))

		reader := newFixture(t, cache)
		reader.client.On("FindDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("offline"))

		draft, source := reader.store.FetchDraft(context.Background())
		assert.Equal(t, models.DraftSourceCache, source)
		assert.Equal(t, int64(22), draft.Answers[2])
	})

	t.Run("malformed cache is a miss", func(t *testing.T) {
		cache := kvstore.NewMemoryKeyValueStore()
		require.NoError(t, cache.Set(context.Background(), CacheKey("42", constvars.PillarKeyHealthPromotion), "not a draft", 0))

		f := newFixture(t, cache)
		f.client.On("FindDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("offline"))

		draft, source := f.store.FetchDraft(context.Background())
		assert.Equal(t, models.DraftSourceEmpty, source)
		assert.True(t, draft.IsEmpty())
	})
}

func TestDraftStore_CacheTracksSyncState(t *testing.T) {
	f := newFixture(t, nil)
	key := CacheKey("42", constvars.PillarKeyHealthPromotion)
	f.client.On("AutoSave", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("offline")).Once()
	f.client.On("AutoSave", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&responses.HICMAutoSave{Saved: 1}, nil).Once()

	require.NoError(t, f.store.RecordAnswer(1, 12))
	f.scheduler.FireAll()

	cached, err := f.cache.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Contains(t, cached, `"unsynced":true`)

	require.NoError(t, f.store.Flush(context.Background()))

	cached, err = f.cache.Get(context.Background(), key)
	require.NoError(t, err)
	assert.NotContains(t, cached, "unsynced")
	assert.Contains(t, cached, `"answers"`)
}

func TestDraftStore_Validation(t *testing.T) {
	f := newFixture(t, nil)

	err := f.store.RecordAnswer(1, 21)
	require.Error(t, err)
	assert.Equal(t, constvars.StatusBadRequest, exceptions.StatusCodeOf(err))

	err = f.store.RecordAnswer(99, 11)
	require.Error(t, err)
	assert.Equal(t, constvars.StatusNotFound, exceptions.StatusCodeOf(err))

	assert.Equal(t, 0, f.scheduler.Scheduled())
}

func TestDraftStore_LockEnforcement(t *testing.T) {
	f := newFixture(t, nil)
	f.lock.Lock()

	err := f.store.RecordAnswer(1, 12)
	require.Error(t, err)
	assert.Equal(t, constvars.StatusConflict, exceptions.StatusCodeOf(err))

	err = f.store.RecordComment(1, "late")
	require.Error(t, err)
	assert.Equal(t, constvars.StatusConflict, exceptions.StatusCodeOf(err))

	assert.True(t, f.store.Snapshot().IsEmpty())
	assert.Equal(t, 0, f.scheduler.Scheduled())
}

// guardGate reports whether the draft mutex was free when the lock was read.
type guardGate struct {
	store     *draftStore
	unguarded bool
}

func (g *guardGate) Locked() bool {
	if g.store.mu.TryLock() {
		g.store.mu.Unlock()
		g.unguarded = true
	}
	return false
}

func TestDraftStore_LockReadUnderDraftMutex(t *testing.T) {
	f := newFixture(t, nil)
	store := f.store.(*draftStore)
	gate := &guardGate{store: store}
	store.Lock = gate

	require.NoError(t, f.store.RecordAnswer(1, 12))
	require.NoError(t, f.store.RecordComment(1, "note"))

	assert.False(t, gate.unguarded)
}

func TestDraftStore_FlushAndClose(t *testing.T) {
	t.Run("flush cancels pending persist and returns remote error", func(t *testing.T) {
		f := newFixture(t, nil)
		f.client.On("AutoSave", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

		require.NoError(t, f.store.RecordAnswer(1, 12))
		err := f.store.Flush(context.Background())
		assert.Error(t, err)
		assert.Equal(t, 0, f.scheduler.Pending())
	})

	t.Run("close cancels pending persist", func(t *testing.T) {
		f := newFixture(t, nil)

		require.NoError(t, f.store.RecordAnswer(1, 12))
		f.store.Close()

		assert.Equal(t, 0, f.scheduler.Pending())
		assert.Equal(t, 0, f.scheduler.FireAll())
		f.client.AssertNotCalled(t, "AutoSave", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

		assert.Error(t, f.store.RecordAnswer(1, 11))
	})
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "company-assessment-anonymous-pillar-2", CacheKey("", constvars.PillarKeyIndustrialSafety))
	assert.Equal(t, "company-assessment-7-pillar-2", CacheKey("7", constvars.PillarKeyIndustrialSafety))
}
