package reports

import (
	"context"
	"errors"
	"fmt"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/app/drivers/monitoring"
	"hicm-service/internal/app/models"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/dto/requests"
	"hicm-service/internal/pkg/dto/responses"
	"hicm-service/internal/pkg/exceptions"
	"hicm-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	submissionKindSummary   = "summary"
	certificateTimestampFmt = "20060102T150405Z"
)

type Options struct {
	CertificateURLExpiry time.Duration
	Clock                func() time.Time
}

type reportUsecase struct {
	certificateURLExpiry time.Duration
	clock                func() time.Time
	SummaryClient        contracts.SummaryClient
	Aggregator           contracts.ScoringAggregator
	Storage              contracts.ReportStorage
	Publisher            contracts.EventPublisher
	Log                  *zap.Logger
}

// NewReportUsecase builds the summary and certificate reports. storage and
// publisher may be nil.
func NewReportUsecase(
	opts Options,
	summaryClient contracts.SummaryClient,
	aggregator contracts.ScoringAggregator,
	storage contracts.ReportStorage,
	publisher contracts.EventPublisher,
	logger *zap.Logger,
) contracts.ReportUsecase {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &reportUsecase{
		certificateURLExpiry: opts.CertificateURLExpiry,
		clock:                clock,
		SummaryClient:        summaryClient,
		Aggregator:           aggregator,
		Storage:              storage,
		Publisher:            publisher,
		Log:                  logger,
	}
}

func (uc *reportUsecase) SummaryStatus(ctx context.Context, respondentID, token string) (*models.AssessmentStatus, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("reportUsecase.SummaryStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRespondentIDKey, respondentID),
	)

	raw, err := uc.SummaryClient.FindStatus(ctx, respondentID, token)
	if err != nil {
		uc.Log.Error("reportUsecase.SummaryStatus error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	status := &models.AssessmentStatus{
		Completed:   raw.Completed,
		Answered:    raw.Answered,
		Total:       raw.Total,
		Submitted:   raw.Submitted,
		SubmittedAt: utils.ParseTimestamp(raw.SubmittedAt),
	}

	uc.Log.Info("reportUsecase.SummaryStatus succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Bool(constvars.LoggingLockedKey, status.Submitted),
	)
	return status, nil
}

func (uc *reportUsecase) SummaryResults(ctx context.Context, respondentID, token string) (*models.SummaryResults, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("reportUsecase.SummaryResults called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRespondentIDKey, respondentID),
	)

	raw, err := uc.SummaryClient.FindResults(ctx, respondentID, token)
	if err != nil {
		uc.Log.Error("reportUsecase.SummaryResults error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	results := uc.enrichResults(raw)

	uc.Log.Info("reportUsecase.SummaryResults succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Float64(constvars.LoggingScoreKey, results.OverallScore),
		zap.String(constvars.LoggingLevelKey, results.Level.Level),
	)
	return &results, nil
}

// SubmitSummary submits the whole assessment once every pillar is answered.
// An already submitted summary returns its status without a call.
func (uc *reportUsecase) SubmitSummary(ctx context.Context, respondentID, token string) (*models.AssessmentStatus, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("reportUsecase.SubmitSummary called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRespondentIDKey, respondentID),
	)

	status, err := uc.SummaryStatus(ctx, respondentID, token)
	if err != nil {
		return nil, err
	}
	if status.Submitted {
		return status, nil
	}
	if !status.Completed {
		return nil, exceptions.ErrSummaryIncomplete(nil)
	}

	request := &requests.HICMSubmit{}
	if userID, err := utils.ParseID(respondentID); err == nil {
		request.UserID = &userID
	}

	outcome, submitted, err := uc.SummaryClient.Submit(ctx, token, request)
	monitoring.SubmissionCounter.WithLabelValues(submissionKindSummary, outcome.String()).Inc()
	if !outcome.Locks() {
		if err == nil {
			err = exceptions.ErrHICMRequest(errors.New("summary was not accepted"), 0, outcome.String())
		}
		uc.Log.Error("reportUsecase.SubmitSummary error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	status.Submitted = true
	if submitted != nil {
		status.SubmittedAt = utils.ParseTimestamp(submitted.SubmittedAt)
	}
	if status.SubmittedAt == nil {
		now := uc.clock()
		status.SubmittedAt = &now
	}

	uc.publish(ctx, contracts.SubmissionEvent{
		ID:           utils.GenerateEventID(),
		Type:         constvars.EventTypeSummarySubmitted,
		RespondentID: respondentID,
		Outcome:      outcome.String(),
		OccurredAt:   *status.SubmittedAt,
	})

	uc.Log.Info("reportUsecase.SubmitSummary succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOutcomeKey, outcome.String()),
	)
	return status, nil
}

// Certificate builds the certificate from the auditor's weighted results.
// When storage is configured it is archived as JSON; an archive failure
// leaves ArchiveURL empty.
func (uc *reportUsecase) Certificate(ctx context.Context, review contracts.AuditorReview) (*models.Certificate, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	detail := review.Review()
	uc.Log.Info("reportUsecase.Certificate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingCompanyIDKey, detail.CompanyID),
	)

	results := review.WeightedResults()
	certificate := &models.Certificate{
		CompanyID:    detail.CompanyID,
		CompanyName:  detail.CompanyName,
		OverallScore: results.OverallScore,
		MaxScore:     results.MaxScore,
		StarCount:    results.StarCount,
		Level:        results.Level,
		Pillars:      results.Pillars,
		AuditedAt:    detail.AuditorSubmittedAt,
		IssuedAt:     uc.clock().UTC(),
	}

	if uc.Storage == nil {
		return certificate, nil
	}

	archiveURL, err := uc.archive(ctx, certificate)
	if err != nil {
		uc.Log.Warn("reportUsecase.Certificate error archiving certificate",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return certificate, nil
	}
	certificate.ArchiveURL = archiveURL

	uc.Log.Info("reportUsecase.Certificate succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingLevelKey, certificate.Level.Level),
	)
	return certificate, nil
}

func (uc *reportUsecase) archive(ctx context.Context, certificate *models.Certificate) (string, error) {
	payload, err := json.Marshal(certificate)
	if err != nil {
		return "", exceptions.ErrCannotMarshalJSON(err)
	}

	objectName := fmt.Sprintf(
		constvars.CertificateObjectFormat,
		utils.FormatID(certificate.CompanyID),
		certificate.IssuedAt.Format(certificateTimestampFmt),
	)
	objectName, err = uc.Storage.PutJSON(ctx, objectName, payload)
	if err != nil {
		return "", err
	}
	return uc.Storage.GetObjectUrlWithExpiryTime(ctx, objectName, uc.certificateURLExpiry)
}

// enrichResults fills catalog names and weights the backend left out and
// recomputes stars and level from the pillar scores.
func (uc *reportUsecase) enrichResults(raw *responses.HICMSummaryResults) models.SummaryResults {
	pillars := make([]models.WeightedPillarResult, 0, len(raw.Pillars))
	for i, rawPillar := range raw.Pillars {
		result := models.WeightedPillarResult{
			Key:      rawPillar.Key,
			Name:     rawPillar.Name,
			Score:    rawPillar.Score,
			MaxScore: rawPillar.MaxScore,
		}
		if result.Key == "" && i < len(models.PillarCatalog) {
			result.Key = models.PillarCatalog[i].Key
		}
		info, known := models.LookupPillarInfo(result.Key)
		if rawPillar.Weight != nil {
			result.Weight = *rawPillar.Weight
		} else if known {
			result.Weight = info.Weight
		}
		if result.Name == "" && known {
			result.Name = info.Name
		}
		if result.MaxScore == 0 {
			result.MaxScore = result.Weight
		}
		pillars = append(pillars, result)
	}

	if len(pillars) > 0 {
		return uc.Aggregator.Summarize(pillars)
	}

	return models.SummaryResults{
		OverallScore: raw.OverallScore,
		MaxScore:     raw.MaxScore,
		StarCount:    raw.StarCount,
		Level:        uc.Aggregator.LevelFor(raw.OverallScore),
		Pillars:      pillars,
	}
}

func (uc *reportUsecase) publish(ctx context.Context, event contracts.SubmissionEvent) {
	if uc.Publisher == nil {
		return
	}
	if _, err := uc.Publisher.Publish(ctx, &contracts.PublishEventInput{Event: event}); err != nil {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		uc.Log.Warn("reportUsecase.publish error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
}
