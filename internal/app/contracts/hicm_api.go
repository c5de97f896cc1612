package contracts

import (
	"context"
	"hicm-service/internal/app/models"
	"hicm-service/internal/pkg/dto/requests"
	"hicm-service/internal/pkg/dto/responses"
)

// Every call takes the caller's bearer token. An empty token sends no
// Authorization header.

type AssessmentClient interface {
	FindPillar(ctx context.Context, pillarKey, token string) (*responses.HICMPillar, error)
	FindDraft(ctx context.Context, pillarKey, respondentID, token string) (*responses.HICMDraft, error)
	AutoSave(ctx context.Context, pillarKey, token string, request *requests.HICMAutoSave) (*responses.HICMAutoSave, error)
	Submit(ctx context.Context, pillarKey, token string, request *requests.HICMSubmit) (models.Outcome, error)
	FindSubmitStatus(ctx context.Context, pillarKey, respondentID, token string) (*responses.HICMSubmitStatus, error)
}

type EvidenceClient interface {
	UploadEvidence(ctx context.Context, questionID int64, token string, files []models.EvidenceFile) ([]responses.HICMEvidenceItem, error)
	ListEvidence(ctx context.Context, questionID int64, token string) ([]responses.HICMEvidenceItem, error)
	DeleteEvidence(ctx context.Context, questionID, evidenceID int64, token string) (*responses.HICMEvidenceDelete, error)
}

type SummaryClient interface {
	FindStatus(ctx context.Context, respondentID, token string) (*responses.HICMSummaryStatus, error)
	FindResults(ctx context.Context, respondentID, token string) (*responses.HICMSummaryResults, error)
	Submit(ctx context.Context, token string, request *requests.HICMSubmit) (models.Outcome, *responses.HICMSummarySubmit, error)
}

type AuditClient interface {
	FindSubmission(ctx context.Context, companyID int64, token string) (*responses.HICMAuditSubmission, error)
	SubmitScores(ctx context.Context, companyID int64, token string, request *requests.HICMAuditScores) (models.Outcome, error)
}
