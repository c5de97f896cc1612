package session

import (
	"context"
	"fmt"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/app/drivers/monitoring"
	"hicm-service/internal/app/models"
	"hicm-service/internal/app/services/core/auditor"
	"hicm-service/internal/app/services/core/drafts"
	"hicm-service/internal/app/services/core/evidence"
	"hicm-service/internal/app/services/core/submissions"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/exceptions"
	"hicm-service/internal/pkg/utils"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Debounce      time.Duration
	DraftCacheTTL time.Duration
	PublicBaseUrl string
	Clock         func() time.Time
}

type reviewEntry struct {
	review contracts.AuditorReview
	tokens *tokenHolder
}

type sessionManager struct {
	mu         sync.Mutex
	workspaces map[string]*workspace
	reviews    map[string]*reviewEntry
	closed     bool

	opts             Options
	Questionnaires   contracts.QuestionnaireUsecase
	AssessmentClient contracts.AssessmentClient
	EvidenceClient   contracts.EvidenceClient
	AuditClient      contracts.AuditClient
	Cache            contracts.KeyValueStore
	Scheduler        contracts.Scheduler
	Aggregator       contracts.ScoringAggregator
	Publisher        contracts.EventPublisher
	Log              *zap.Logger
}

type Dependencies struct {
	Questionnaires   contracts.QuestionnaireUsecase
	AssessmentClient contracts.AssessmentClient
	EvidenceClient   contracts.EvidenceClient
	AuditClient      contracts.AuditClient
	Cache            contracts.KeyValueStore
	Scheduler        contracts.Scheduler
	Aggregator       contracts.ScoringAggregator
	Publisher        contracts.EventPublisher
}

func NewSessionManager(opts Options, deps Dependencies, logger *zap.Logger) contracts.SessionManager {
	return &sessionManager{
		workspaces:       make(map[string]*workspace),
		reviews:          make(map[string]*reviewEntry),
		opts:             opts,
		Questionnaires:   deps.Questionnaires,
		AssessmentClient: deps.AssessmentClient,
		EvidenceClient:   deps.EvidenceClient,
		AuditClient:      deps.AuditClient,
		Cache:            deps.Cache,
		Scheduler:        deps.Scheduler,
		Aggregator:       deps.Aggregator,
		Publisher:        deps.Publisher,
		Log:              logger,
	}
}

func workspaceKey(pillarKey, respondentID string) string {
	return fmt.Sprintf(constvars.WorkspaceKeyFormat, normalizeRespondent(respondentID), pillarKey)
}

func reviewKey(companyID int64, auditorID string) string {
	return fmt.Sprintf(constvars.AuditWorkspaceFormat, normalizeRespondent(auditorID), utils.FormatID(companyID))
}

func normalizeRespondent(respondentID string) string {
	if respondentID == "" {
		return constvars.AnonymousRespondent
	}
	return respondentID
}

// OpenWorkspace returns the cached workspace for (respondent, pillar) or
// loads a new one. Loading never fails because of a single backend call.
func (m *sessionManager) OpenWorkspace(ctx context.Context, pillarKey, respondentID, token string) (contracts.Workspace, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	m.Log.Info("sessionManager.OpenWorkspace called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPillarKey, pillarKey),
		zap.String(constvars.LoggingRespondentIDKey, respondentID),
	)

	if !utils.IsKnownPillarKey(pillarKey) {
		return nil, exceptions.ErrUnknownPillar(nil, pillarKey)
	}
	respondentID = normalizeRespondent(respondentID)
	key := workspaceKey(pillarKey, respondentID)

	if ws, ok := m.cachedWorkspace(key); ok {
		ws.SetToken(token)
		m.refresh(ctx, ws)
		return ws, nil
	}

	ws := m.newWorkspace(key, pillarKey, respondentID, token)
	m.load(ctx, ws)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		ws.Close()
		return nil, exceptions.ErrWorkspaceNotFound(nil, key)
	}
	if existing, ok := m.workspaces[key]; ok {
		m.mu.Unlock()
		ws.Close()
		existing.SetToken(token)
		return existing, nil
	}
	m.workspaces[key] = ws
	m.mu.Unlock()
	monitoring.OpenWorkspaces.Inc()

	m.Log.Info("sessionManager.OpenWorkspace succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingWorkspaceKeyName, key),
		zap.Strings(constvars.LoggingBranchKey, ws.Degraded()),
		zap.Bool(constvars.LoggingLockedKey, ws.submission.Locked()),
	)
	return ws, nil
}

func (m *sessionManager) cachedWorkspace(key string) (*workspace, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, ok := m.workspaces[key]
	return ws, ok
}

func (m *sessionManager) newWorkspace(key, pillarKey, respondentID, token string) *workspace {
	ws := &workspace{
		tokenHolder:  newTokenHolder(token),
		key:          key,
		pillarKey:    pillarKey,
		respondentID: respondentID,
	}

	ws.submission = submissions.NewSubmissionMachine(
		submissions.Options{PillarKey: pillarKey, RespondentID: respondentID, Clock: m.opts.Clock},
		ws,
		m.AssessmentClient,
		m.Publisher,
		ws,
		m.Log,
	)
	ws.drafts = drafts.NewDraftStore(
		drafts.Options{
			PillarKey:    pillarKey,
			RespondentID: respondentID,
			Debounce:     m.opts.Debounce,
			CacheTTL:     m.opts.DraftCacheTTL,
		},
		m.AssessmentClient,
		m.Cache,
		m.Scheduler,
		ws,
		ws.submission,
		m.Log,
	)
	ws.evidence = evidence.NewEvidenceTracker(m.opts.PublicBaseUrl, m.EvidenceClient, ws, ws.submission, m.Log)
	return ws
}

// load fans out the pillar, draft and submit status reads. Each branch
// falls back to its default and is recorded as degraded.
func (m *sessionManager) load(ctx context.Context, ws *workspace) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	var (
		pillar    models.Pillar
		draft     models.Draft
		source    models.DraftSource
		submitted bool
		pillarErr error
		statusErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loaded, err := m.Questionnaires.LoadPillar(gctx, ws.pillarKey, ws.Token())
		if err != nil {
			pillarErr = err
			return nil
		}
		pillar = *loaded
		return nil
	})
	g.Go(func() error {
		draft, source = ws.drafts.FetchDraft(gctx)
		return nil
	})
	g.Go(func() error {
		status, err := m.AssessmentClient.FindSubmitStatus(gctx, ws.pillarKey, ws.respondentID, ws.Token())
		if err != nil {
			statusErr = err
			return nil
		}
		submitted = status.Submitted
		return nil
	})
	_ = g.Wait()

	degraded := make([]string, 0, 3)
	if pillarErr != nil {
		degraded = append(degraded, constvars.BranchPillar)
		pillar = emptyPillar(ws.pillarKey)
		m.Log.Warn("sessionManager.load pillar unavailable, using empty definition",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPillarKey, ws.pillarKey),
			zap.Error(pillarErr),
		)
	}
	if source != models.DraftSourceRemote && source != models.DraftSourceLocal {
		degraded = append(degraded, constvars.BranchDraft)
	}
	if statusErr != nil {
		degraded = append(degraded, constvars.BranchSubmitStatus)
		m.Log.Warn("sessionManager.load submit status unavailable, assuming open",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPillarKey, ws.pillarKey),
			zap.Error(statusErr),
		)
	}

	ws.drafts.Restore(pillar, draft)
	ws.submission.Restore(submitted)

	ws.mu.Lock()
	ws.pillar = pillar
	ws.degraded = degraded
	ws.mu.Unlock()
}

// refresh retries the branches a cached workspace degraded on. A missing
// pillar reloads every branch since no edit can land on an empty pillar. The
// draft branch alone is never retried so in-memory edits survive.
func (m *sessionManager) refresh(ctx context.Context, ws *workspace) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	ws.refreshMu.Lock()
	defer ws.refreshMu.Unlock()

	degraded := ws.Degraded()
	switch {
	case slices.Contains(degraded, constvars.BranchPillar):
		m.load(ctx, ws)
	case slices.Contains(degraded, constvars.BranchSubmitStatus):
		status, err := m.AssessmentClient.FindSubmitStatus(ctx, ws.pillarKey, ws.respondentID, ws.Token())
		if err != nil {
			m.Log.Warn("sessionManager.refresh submit status still unavailable",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingWorkspaceKeyName, ws.key),
				zap.Error(err),
			)
			return
		}
		ws.submission.Restore(status.Submitted)
		ws.clearDegraded(constvars.BranchSubmitStatus)
	default:
		return
	}

	m.Log.Info("sessionManager.refresh succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingWorkspaceKeyName, ws.key),
		zap.Strings(constvars.LoggingBranchKey, ws.Degraded()),
	)
}

func emptyPillar(pillarKey string) models.Pillar {
	pillar := models.Pillar{Key: pillarKey, Questions: []models.Question{}}
	if info, ok := models.LookupPillarInfo(pillarKey); ok {
		pillar.Name = info.Name
		pillar.Weight = info.Weight
	}
	return pillar
}

func (m *sessionManager) Workspace(pillarKey, respondentID string) (contracts.Workspace, bool) {
	ws, ok := m.cachedWorkspace(workspaceKey(pillarKey, respondentID))
	if !ok {
		return nil, false
	}
	return ws, true
}

// CloseWorkspace drops the workspace and cancels its pending persists.
func (m *sessionManager) CloseWorkspace(pillarKey, respondentID string) bool {
	key := workspaceKey(pillarKey, respondentID)

	m.mu.Lock()
	ws, ok := m.workspaces[key]
	delete(m.workspaces, key)
	m.mu.Unlock()

	if !ok {
		return false
	}
	ws.Close()
	monitoring.OpenWorkspaces.Dec()
	m.Log.Info("sessionManager.CloseWorkspace succeeded",
		zap.String(constvars.LoggingWorkspaceKeyName, key),
	)
	return true
}

func (m *sessionManager) OpenReview(ctx context.Context, companyID int64, auditorID, token string) (contracts.AuditorReview, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	m.Log.Info("sessionManager.OpenReview called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingCompanyIDKey, companyID),
	)

	key := reviewKey(companyID, auditorID)

	m.mu.Lock()
	entry, ok := m.reviews[key]
	m.mu.Unlock()
	if ok {
		entry.tokens.SetToken(token)
		return entry.review, nil
	}

	tokens := newTokenHolder(token)
	review, err := auditor.LoadAuditorReview(
		ctx,
		auditor.Options{CompanyID: companyID, AuditorID: normalizeRespondent(auditorID), Clock: m.opts.Clock},
		m.AuditClient,
		m.Aggregator,
		m.Publisher,
		tokens,
		m.Log,
	)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.reviews[key]; ok {
		existing.tokens.SetToken(token)
		return existing.review, nil
	}
	m.reviews[key] = &reviewEntry{review: review, tokens: tokens}
	return review, nil
}

func (m *sessionManager) Review(companyID int64, auditorID string) (contracts.AuditorReview, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.reviews[reviewKey(companyID, auditorID)]
	if !ok {
		return nil, false
	}
	return entry.review, true
}

// Shutdown flushes and closes every workspace, then stops the scheduler.
// A failed flush is logged and the edits stay in the local cache.
func (m *sessionManager) Shutdown(ctx context.Context) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	m.mu.Lock()
	workspaces := m.workspaces
	m.workspaces = make(map[string]*workspace)
	m.reviews = make(map[string]*reviewEntry)
	m.closed = true
	m.mu.Unlock()

	for _, ws := range workspaces {
		if err := ws.Flush(ctx); err != nil {
			m.Log.Warn("sessionManager.Shutdown flush failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingWorkspaceKeyName, ws.key),
				zap.Error(err),
			)
		}
		ws.Close()
	}
	monitoring.OpenWorkspaces.Set(0)
	if m.Scheduler != nil {
		m.Scheduler.Stop()
	}

	m.Log.Info("sessionManager.Shutdown succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingItemCountKey, len(workspaces)),
	)
}
