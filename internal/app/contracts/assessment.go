package contracts

import (
	"context"
	"hicm-service/internal/app/models"
)

// TokenSource yields the bearer credential for outbound calls.
type TokenSource interface {
	Token() string
}

// LockGate reports whether the owning submission refuses mutations.
type LockGate interface {
	Locked() bool
}

// Flusher persists staged state synchronously.
type Flusher interface {
	Flush(ctx context.Context) error
}

type DraftStore interface {
	// FetchDraft reads the remote draft, falling back to the local cache and
	// then to an empty draft. It does not install the result.
	FetchDraft(ctx context.Context) (models.Draft, models.DraftSource)
	// Restore installs draft for pillar, dropping unknown question ids.
	Restore(pillar models.Pillar, draft models.Draft)
	LoadDraft(ctx context.Context, pillar models.Pillar) (models.Draft, models.DraftSource)
	RecordAnswer(questionID, choiceID int64) error
	RecordComment(questionID int64, text string) error
	Snapshot() models.Draft
	Flush(ctx context.Context) error
	Close()
}

type EvidenceTracker interface {
	LoadEvidence(ctx context.Context, questionID int64) ([]models.EvidenceItem, error)
	UploadEvidence(ctx context.Context, questionID int64, files []models.EvidenceFile) ([]models.EvidenceItem, error)
	// DeleteEvidence reports whether the backend confirmed the removal.
	DeleteEvidence(ctx context.Context, questionID, evidenceID int64) (bool, error)
	Items(questionID int64) []models.EvidenceItem
	Snapshot() map[int64][]models.EvidenceItem
}

type SubmissionMachine interface {
	LockGate
	Restore(submitted bool)
	Submit(ctx context.Context) (models.PillarSubmission, error)
	Snapshot() models.PillarSubmission
}

type QuestionnaireUsecase interface {
	LoadPillar(ctx context.Context, pillarKey, token string) (*models.Pillar, error)
}

type AuditorReview interface {
	Review() models.AuditReview
	Scores() map[int64]int64
	Locked() bool
	RecordAuditorScore(questionID, criteriaID int64) error
	IsComplete() bool
	SubmitAuditorScores(ctx context.Context) error
	Aggregate() models.AggregateScore
	WeightedResults() models.SummaryResults
}
