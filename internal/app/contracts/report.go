package contracts

import (
	"context"
	"hicm-service/internal/app/models"
)

type ReportUsecase interface {
	SummaryStatus(ctx context.Context, respondentID, token string) (*models.AssessmentStatus, error)
	SummaryResults(ctx context.Context, respondentID, token string) (*models.SummaryResults, error)
	SubmitSummary(ctx context.Context, respondentID, token string) (*models.AssessmentStatus, error)
	Certificate(ctx context.Context, review AuditorReview) (*models.Certificate, error)
}
