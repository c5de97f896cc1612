package contracts

import (
	"context"
	"hicm-service/internal/app/models"
)

type Workspace interface {
	TokenSource
	Key() string
	PillarKey() string
	RespondentID() string
	Pillar() models.Pillar
	Drafts() DraftStore
	Evidence() EvidenceTracker
	Submission() SubmissionMachine
	Degraded() []string
	SetToken(token string)
	Close()
}

type SessionManager interface {
	OpenWorkspace(ctx context.Context, pillarKey, respondentID, token string) (Workspace, error)
	Workspace(pillarKey, respondentID string) (Workspace, bool)
	CloseWorkspace(pillarKey, respondentID string) bool
	OpenReview(ctx context.Context, companyID int64, auditorID, token string) (AuditorReview, error)
	Review(companyID int64, auditorID string) (AuditorReview, bool)
	Shutdown(ctx context.Context)
}
