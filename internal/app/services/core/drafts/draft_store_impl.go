package drafts

import (
	"context"
	"fmt"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/app/drivers/monitoring"
	"hicm-service/internal/app/models"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/dto/requests"
	"hicm-service/internal/pkg/exceptions"
	"hicm-service/internal/pkg/utils"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Options identifies the draft and tunes its persistence.
type Options struct {
	PillarKey    string
	RespondentID string
	Debounce     time.Duration
	CacheTTL     time.Duration
}

// draftStore stages answers and comments for one respondent and pillar.
// Edits update memory at once. A debounced persist writes the local cache
// and then pushes the whole draft to the backend.
type draftStore struct {
	mu     sync.Mutex
	draft  models.Draft
	pillar models.Pillar
	closed bool

	// syncMu orders cache writes and pushes so the cache never claims a
	// newer draft is synced than the backend holds.
	syncMu sync.Mutex

	pillarKey    string
	respondentID string
	debounce     time.Duration
	cacheTTL     time.Duration

	AssessmentClient contracts.AssessmentClient
	Cache            contracts.KeyValueStore
	Scheduler        contracts.Scheduler
	Tokens           contracts.TokenSource
	Lock             contracts.LockGate
	Log              *zap.Logger
}

func NewDraftStore(
	opts Options,
	assessmentClient contracts.AssessmentClient,
	cache contracts.KeyValueStore,
	scheduler contracts.Scheduler,
	tokens contracts.TokenSource,
	lock contracts.LockGate,
	logger *zap.Logger,
) contracts.DraftStore {
	return &draftStore{
		draft:            models.NewDraft(),
		pillarKey:        opts.PillarKey,
		respondentID:     opts.RespondentID,
		debounce:         opts.Debounce,
		cacheTTL:         opts.CacheTTL,
		AssessmentClient: assessmentClient,
		Cache:            cache,
		Scheduler:        scheduler,
		Tokens:           tokens,
		Lock:             lock,
		Log:              logger,
	}
}

// cachedDraft is the local cache entry. Unsynced marks edits that were
// written locally but not yet accepted by the backend.
type cachedDraft struct {
	models.Draft
	Unsynced bool `json:"unsynced,omitempty"`
}

// CacheKey is the local cache key of a respondent's pillar draft.
func CacheKey(respondentID, pillarKey string) string {
	if strings.TrimSpace(respondentID) == "" {
		respondentID = constvars.AnonymousRespondent
	}
	return fmt.Sprintf(constvars.DraftCacheKeyFormat, respondentID, pillarKey)
}

func (s *draftStore) cacheKey() string {
	return CacheKey(s.respondentID, s.pillarKey)
}

func (s *draftStore) schedulerKey() string {
	return fmt.Sprintf(constvars.PersistSchedulerFormat, s.respondentID, s.pillarKey)
}

// FetchDraft prefers unsynced local edits, then the backend draft, then
// whatever the cache holds.
func (s *draftStore) FetchDraft(ctx context.Context) (models.Draft, models.DraftSource) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("draftStore.FetchDraft called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPillarKey, s.pillarKey),
		zap.String(constvars.LoggingRespondentIDKey, s.respondentID),
	)

	cached, cacheHit := s.readCache(ctx)
	if cacheHit && cached.Unsynced {
		s.Log.Info("draftStore.FetchDraft loaded unsynced local draft",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCacheKey, s.cacheKey()),
		)
		return cached.Draft, models.DraftSourceLocal
	}

	remote, err := s.AssessmentClient.FindDraft(ctx, s.pillarKey, s.respondentID, s.Tokens.Token())
	if err == nil && remote != nil {
		s.Log.Info("draftStore.FetchDraft loaded remote draft",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingItemCountKey, len(remote.Items)),
		)
		return models.DraftFromItems(remote.Items), models.DraftSourceRemote
	}

	s.Log.Warn("draftStore.FetchDraft remote draft unavailable, trying cache",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCacheKey, s.cacheKey()),
		zap.Error(err),
	)

	if cacheHit {
		return cached.Draft, models.DraftSourceCache
	}
	return models.NewDraft(), models.DraftSourceEmpty
}

func (s *draftStore) Restore(pillar models.Pillar, draft models.Draft) {
	kept := withMaps(draft).KeepQuestions(pillar.QuestionIDs())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pillar = pillar
	s.draft = kept
}

func (s *draftStore) LoadDraft(ctx context.Context, pillar models.Pillar) (models.Draft, models.DraftSource) {
	draft, source := s.FetchDraft(ctx)
	s.Restore(pillar, draft)
	return s.Snapshot(), source
}

func (s *draftStore) RecordAnswer(questionID, choiceID int64) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return exceptions.ErrWorkspaceNotFound(nil, s.schedulerKey())
	}
	if s.Lock.Locked() {
		s.mu.Unlock()
		return exceptions.ErrSubmissionLocked(nil)
	}
	question, ok := s.pillar.FindQuestion(questionID)
	if !ok {
		s.mu.Unlock()
		return exceptions.ErrQuestionNotFound(nil, questionID)
	}
	if _, ok := question.FindChoice(choiceID); !ok {
		s.mu.Unlock()
		return exceptions.ErrInvalidChoice(nil, choiceID, questionID)
	}
	s.draft.Answers[questionID] = choiceID
	s.mu.Unlock()

	s.Log.Debug("draftStore.RecordAnswer recorded",
		zap.String(constvars.LoggingPillarKey, s.pillarKey),
		zap.Int64(constvars.LoggingQuestionIDKey, questionID),
		zap.Int64(constvars.LoggingChoiceIDKey, choiceID),
	)
	s.schedulePersist()
	return nil
}

// RecordComment stores the performance result text. Blank text clears it.
func (s *draftStore) RecordComment(questionID int64, text string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return exceptions.ErrWorkspaceNotFound(nil, s.schedulerKey())
	}
	if s.Lock.Locked() {
		s.mu.Unlock()
		return exceptions.ErrSubmissionLocked(nil)
	}
	if _, ok := s.pillar.FindQuestion(questionID); !ok {
		s.mu.Unlock()
		return exceptions.ErrQuestionNotFound(nil, questionID)
	}
	if strings.TrimSpace(text) == "" {
		delete(s.draft.Comments, questionID)
	} else {
		s.draft.Comments[questionID] = text
	}
	s.mu.Unlock()

	s.schedulePersist()
	return nil
}

func (s *draftStore) Snapshot() models.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// Flush cancels any pending persist and persists now, returning the remote
// error instead of swallowing it.
func (s *draftStore) Flush(ctx context.Context) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("draftStore.Flush called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPillarKey, s.pillarKey),
	)

	s.Scheduler.Cancel(s.schedulerKey())

	if err := s.sync(ctx); err != nil {
		return err
	}

	s.Log.Info("draftStore.Flush succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return nil
}

func (s *draftStore) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	if s.Scheduler.Cancel(s.schedulerKey()) {
		s.Log.Info("draftStore.Close cancelled pending persist",
			zap.String(constvars.LoggingSchedulerKey, s.schedulerKey()),
		)
	}
}

func (s *draftStore) schedulePersist() {
	s.Scheduler.Schedule(s.schedulerKey(), s.debounce, func() {
		ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, utils.GenerateRequestID())
		s.persist(ctx)
	})
}

// persist is the debounced write. Remote failures are logged and dropped;
// the cache entry stays unsynced until a later push lands.
func (s *draftStore) persist(ctx context.Context) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}

	if err := s.sync(ctx); err != nil {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		s.Log.Warn("draftStore.persist remote auto-save failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPillarKey, s.pillarKey),
			zap.Error(err),
		)
	}
}

// sync writes the current draft to the cache as unsynced, pushes it and
// marks the entry synced once the backend accepts it.
func (s *draftStore) sync(ctx context.Context) error {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	s.mu.Lock()
	snapshot := s.draft.Clone()
	s.mu.Unlock()

	s.writeCache(ctx, snapshot, true)
	if err := s.pushRemote(ctx, snapshot); err != nil {
		return err
	}
	s.writeCache(ctx, snapshot, false)
	return nil
}

func (s *draftStore) pushRemote(ctx context.Context, snapshot models.Draft) error {
	items := snapshot.Items()
	if len(items) == 0 {
		monitoring.AutosaveCounter.WithLabelValues("skipped").Inc()
		return nil
	}

	request := &requests.HICMAutoSave{Items: items}
	if userID, err := utils.ParseID(s.respondentID); err == nil {
		request.UserID = &userID
	}

	if _, err := s.AssessmentClient.AutoSave(ctx, s.pillarKey, s.Tokens.Token(), request); err != nil {
		monitoring.AutosaveCounter.WithLabelValues("error").Inc()
		return err
	}
	monitoring.AutosaveCounter.WithLabelValues("success").Inc()
	return nil
}

func (s *draftStore) writeCache(ctx context.Context, snapshot models.Draft, unsynced bool) {
	if s.Cache == nil {
		return
	}
	entry := cachedDraft{Draft: snapshot, Unsynced: unsynced}
	if err := s.Cache.Set(ctx, s.cacheKey(), entry, s.cacheTTL); err != nil {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		s.Log.Warn("draftStore.writeCache error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCacheKey, s.cacheKey()),
			zap.Error(err),
		)
	}
}

func (s *draftStore) readCache(ctx context.Context) (cachedDraft, bool) {
	if s.Cache == nil {
		return cachedDraft{}, false
	}

	cachedData, err := s.Cache.Get(ctx, s.cacheKey())
	if err != nil {
		s.Log.Warn("draftStore.readCache error",
			zap.String(constvars.LoggingCacheKey, s.cacheKey()),
			zap.Error(err),
		)
		return cachedDraft{}, false
	}
	if cachedData == "" {
		return cachedDraft{}, false
	}

	var entry cachedDraft
	if err := json.Unmarshal([]byte(cachedData), &entry); err != nil {
		s.Log.Warn("draftStore.readCache malformed cache entry",
			zap.String(constvars.LoggingCacheKey, s.cacheKey()),
			zap.Error(err),
		)
		return cachedDraft{}, false
	}
	entry.Draft = withMaps(entry.Draft)
	return entry, true
}

func withMaps(draft models.Draft) models.Draft {
	if draft.Answers == nil {
		draft.Answers = map[int64]int64{}
	}
	if draft.Comments == nil {
		draft.Comments = map[int64]string{}
	}
	return draft
}
