package evidence

import (
	"context"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/app/models"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/dto/responses"
	"hicm-service/internal/pkg/exceptions"
	"hicm-service/internal/pkg/utils"
	"sync"

	"go.uber.org/zap"
)

type evidenceTracker struct {
	mu    sync.Mutex
	items map[int64][]models.EvidenceItem

	publicBaseUrl  string
	EvidenceClient contracts.EvidenceClient
	Tokens         contracts.TokenSource
	Lock           contracts.LockGate
	Log            *zap.Logger
}

func NewEvidenceTracker(
	publicBaseUrl string,
	evidenceClient contracts.EvidenceClient,
	tokens contracts.TokenSource,
	lock contracts.LockGate,
	logger *zap.Logger,
) contracts.EvidenceTracker {
	return &evidenceTracker{
		items:          map[int64][]models.EvidenceItem{},
		publicBaseUrl:  publicBaseUrl,
		EvidenceClient: evidenceClient,
		Tokens:         tokens,
		Lock:           lock,
		Log:            logger,
	}
}

// LoadEvidence replaces the question's list with the backend's. Reading is
// allowed after the submission is locked.
func (t *evidenceTracker) LoadEvidence(ctx context.Context, questionID int64) ([]models.EvidenceItem, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	t.Log.Info("evidenceTracker.LoadEvidence called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingQuestionIDKey, questionID),
	)

	listed, err := t.EvidenceClient.ListEvidence(ctx, questionID, t.Tokens.Token())
	if err != nil {
		t.Log.Error("evidenceTracker.LoadEvidence error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	items := t.toItems(questionID, listed)

	t.mu.Lock()
	t.items[questionID] = items
	t.mu.Unlock()

	return cloneItems(items), nil
}

func (t *evidenceTracker) UploadEvidence(ctx context.Context, questionID int64, files []models.EvidenceFile) ([]models.EvidenceItem, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	t.Log.Info("evidenceTracker.UploadEvidence called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingQuestionIDKey, questionID),
		zap.Int(constvars.LoggingFileCountKey, len(files)),
	)

	if t.Lock.Locked() {
		return nil, exceptions.ErrSubmissionLocked(nil)
	}
	if len(files) == 0 {
		return []models.EvidenceItem{}, nil
	}

	uploaded, err := t.EvidenceClient.UploadEvidence(ctx, questionID, t.Tokens.Token(), files)
	if err != nil {
		t.Log.Error("evidenceTracker.UploadEvidence error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	items := t.toItems(questionID, uploaded)

	t.mu.Lock()
	t.items[questionID] = append(t.items[questionID], items...)
	t.mu.Unlock()

	t.Log.Info("evidenceTracker.UploadEvidence succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingItemCountKey, len(items)),
	)
	return cloneItems(items), nil
}

// DeleteEvidence drops the item only when the backend answers success:true.
// Any other answer leaves the list as it was.
func (t *evidenceTracker) DeleteEvidence(ctx context.Context, questionID, evidenceID int64) (bool, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	t.Log.Info("evidenceTracker.DeleteEvidence called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingQuestionIDKey, questionID),
		zap.Int64(constvars.LoggingEvidenceIDKey, evidenceID),
	)

	if t.Lock.Locked() {
		return false, exceptions.ErrSubmissionLocked(nil)
	}

	deleted, err := t.EvidenceClient.DeleteEvidence(ctx, questionID, evidenceID, t.Tokens.Token())
	if err != nil {
		t.Log.Error("evidenceTracker.DeleteEvidence error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return false, err
	}
	if deleted == nil || !deleted.Success {
		t.Log.Warn("evidenceTracker.DeleteEvidence not confirmed by backend",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int64(constvars.LoggingEvidenceIDKey, evidenceID),
		)
		return false, nil
	}

	t.mu.Lock()
	current := t.items[questionID]
	kept := make([]models.EvidenceItem, 0, len(current))
	for _, item := range current {
		if item.ID != evidenceID {
			kept = append(kept, item)
		}
	}
	t.items[questionID] = kept
	t.mu.Unlock()

	t.Log.Info("evidenceTracker.DeleteEvidence succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return true, nil
}

func (t *evidenceTracker) Items(questionID int64) []models.EvidenceItem {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneItems(t.items[questionID])
}

func (t *evidenceTracker) Snapshot() map[int64][]models.EvidenceItem {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := make(map[int64][]models.EvidenceItem, len(t.items))
	for questionID, items := range t.items {
		snapshot[questionID] = cloneItems(items)
	}
	return snapshot
}

func (t *evidenceTracker) toItems(questionID int64, raw []responses.HICMEvidenceItem) []models.EvidenceItem {
	items := make([]models.EvidenceItem, 0, len(raw))
	for _, entry := range raw {
		items = append(items, toEvidenceItem(t.publicBaseUrl, questionID, entry))
	}
	return items
}

// toEvidenceItem prefers the backend url over the file path and resolves
// root-relative locations against the public base.
func toEvidenceItem(publicBaseUrl string, questionID int64, entry responses.HICMEvidenceItem) models.EvidenceItem {
	item := models.EvidenceItem{ID: entry.ID, QuestionID: questionID}
	if entry.FilePath != nil {
		item.FilePath = *entry.FilePath
	}

	location := item.FilePath
	if entry.URL != nil && *entry.URL != "" {
		location = *entry.URL
	}
	item.URL = utils.ResolvePublicURL(publicBaseUrl, location)
	item.Label = utils.LabelFromLocation(location)
	return item
}

func cloneItems(items []models.EvidenceItem) []models.EvidenceItem {
	cloned := make([]models.EvidenceItem, len(items))
	copy(cloned, items)
	return cloned
}
