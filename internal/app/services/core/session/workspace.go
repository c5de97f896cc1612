package session

import (
	"context"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/app/models"
	"slices"
	"sync"
	"sync/atomic"
)

// tokenHolder keeps the latest bearer token seen for a cached workspace or
// review so debounced persists use a fresh credential.
type tokenHolder struct {
	value atomic.Value
}

func newTokenHolder(token string) *tokenHolder {
	holder := &tokenHolder{}
	holder.value.Store(token)
	return holder
}

func (h *tokenHolder) Token() string {
	token, _ := h.value.Load().(string)
	return token
}

func (h *tokenHolder) SetToken(token string) {
	if token == "" {
		return
	}
	h.value.Store(token)
}

type workspace struct {
	*tokenHolder

	key          string
	pillarKey    string
	respondentID string

	refreshMu sync.Mutex

	mu       sync.RWMutex
	pillar   models.Pillar
	degraded []string

	drafts     contracts.DraftStore
	evidence   contracts.EvidenceTracker
	submission contracts.SubmissionMachine
}

func (w *workspace) Key() string          { return w.key }
func (w *workspace) PillarKey() string    { return w.pillarKey }
func (w *workspace) RespondentID() string { return w.respondentID }

func (w *workspace) Pillar() models.Pillar {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pillar
}

// Degraded lists the load branches that fell back to their defaults.
func (w *workspace) Degraded() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]string(nil), w.degraded...)
}

func (w *workspace) clearDegraded(branch string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.degraded = slices.DeleteFunc(w.degraded, func(b string) bool { return b == branch })
}

func (w *workspace) Drafts() contracts.DraftStore            { return w.drafts }
func (w *workspace) Evidence() contracts.EvidenceTracker     { return w.evidence }
func (w *workspace) Submission() contracts.SubmissionMachine { return w.submission }
func (w *workspace) Flush(ctx context.Context) error         { return w.drafts.Flush(ctx) }

func (w *workspace) Close() {
	w.drafts.Close()
}
