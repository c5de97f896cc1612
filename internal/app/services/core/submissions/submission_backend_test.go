package submissions

import (
	"context"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/app/contracts/mocks"
	"hicm-service/internal/app/models"
	"hicm-service/internal/app/services/core/drafts"
	hicmapi "hicm-service/internal/app/services/hicm_api"
	"hicm-service/internal/app/services/shared/kvstore"
	"hicm-service/internal/app/services/shared/scheduler"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/exceptions"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// A backend that already holds the submission refuses both auto-save and
// submit with 400. The pillar must still lock locally after one round trip.
func TestSubmissionMachine_BackendAlreadyHoldsSubmission(t *testing.T) {
	var autoSaves, submits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/assessments/pillar-2/auto-save":
			autoSaves.Add(1)
		case "/assessments/pillar-2/submit":
			submits.Add(1)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Assessment already submitted"}`))
	}))
	t.Cleanup(server.Close)

	client := hicmapi.NewAssessmentClient(hicmapi.Options{
		BaseUrl: server.URL,
		Timeout: 2 * time.Second,
		Limiter: rate.NewLimiter(rate.Inf, 1),
	}, zap.NewNop())
	tokens := mocks.NewStaticToken("tok")

	var store contracts.DraftStore
	machine := NewSubmissionMachine(
		Options{PillarKey: constvars.PillarKeyIndustrialSafety, RespondentID: "42", Clock: func() time.Time { return fixedNow }},
		flushFunc(func(ctx context.Context) error { return store.Flush(ctx) }),
		client,
		nil,
		tokens,
		zap.NewNop(),
	)
	store = drafts.NewDraftStore(
		drafts.Options{PillarKey: constvars.PillarKeyIndustrialSafety, RespondentID: "42", Debounce: time.Second},
		client,
		kvstore.NewMemoryKeyValueStore(),
		scheduler.NewManualScheduler(),
		tokens,
		machine,
		zap.NewNop(),
	)
	store.Restore(models.Pillar{
		Key:       constvars.PillarKeyIndustrialSafety,
		Questions: []models.Question{{ID: 1, Title: "Q1", Choices: []models.Choice{{ID: 11, Score: 20}}}},
	}, models.NewDraft())
	require.NoError(t, store.RecordAnswer(1, 11))

	for i := 0; i < 3; i++ {
		snapshot, err := machine.Submit(context.Background())
		require.NoError(t, err)
		assert.True(t, snapshot.Locked)
		assert.Equal(t, models.SubmissionStateSubmitted, snapshot.State)
	}

	assert.EqualValues(t, 1, autoSaves.Load())
	assert.EqualValues(t, 1, submits.Load())

	err := store.RecordAnswer(1, 11)
	assert.Equal(t, constvars.StatusConflict, exceptions.StatusCodeOf(err))
}
