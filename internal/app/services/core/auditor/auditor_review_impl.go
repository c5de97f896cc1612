package auditor

import (
	"context"
	"errors"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/app/drivers/monitoring"
	"hicm-service/internal/app/models"
	"hicm-service/internal/app/services/core/scoring"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/dto/requests"
	"hicm-service/internal/pkg/dto/responses"
	"hicm-service/internal/pkg/exceptions"
	"hicm-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

const submissionKindAudit = "audit"

type Options struct {
	CompanyID int64
	AuditorID string
	Clock     func() time.Time
}

// auditorReview holds one auditor's scoring pass over a company submission.
// Its lock is independent of the company's pillar locks.
type auditorReview struct {
	submitMu   sync.Mutex
	mu         sync.Mutex
	review     models.AuditReview
	scores     map[int64]int64
	submitting bool

	auditorID   string
	clock       func() time.Time
	AuditClient contracts.AuditClient
	Aggregator  contracts.ScoringAggregator
	Publisher   contracts.EventPublisher
	Tokens      contracts.TokenSource
	Log         *zap.Logger
}

// LoadAuditorReview fetches the company submission and builds a review from
// it. A missing submission surfaces as the client's not-found error.
func LoadAuditorReview(
	ctx context.Context,
	opts Options,
	auditClient contracts.AuditClient,
	aggregator contracts.ScoringAggregator,
	publisher contracts.EventPublisher,
	tokens contracts.TokenSource,
	logger *zap.Logger,
) (contracts.AuditorReview, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	logger.Info("auditor.LoadAuditorReview called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingCompanyIDKey, opts.CompanyID),
	)

	submission, err := auditClient.FindSubmission(ctx, opts.CompanyID, tokens.Token())
	if err != nil {
		logger.Error("auditor.LoadAuditorReview error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	review := NewAuditorReview(submission, opts, auditClient, aggregator, publisher, tokens, logger)
	logger.Info("auditor.LoadAuditorReview succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Bool(constvars.LoggingLockedKey, review.Locked()),
	)
	return review, nil
}

func NewAuditorReview(
	submission *responses.HICMAuditSubmission,
	opts Options,
	auditClient contracts.AuditClient,
	aggregator contracts.ScoringAggregator,
	publisher contracts.EventPublisher,
	tokens contracts.TokenSource,
	logger *zap.Logger,
) contracts.AuditorReview {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	review, scores := buildReview(submission)
	if review.CompanyID == 0 {
		review.CompanyID = opts.CompanyID
	}

	return &auditorReview{
		review:      review,
		scores:      scores,
		auditorID:   opts.AuditorID,
		clock:       clock,
		AuditClient: auditClient,
		Aggregator:  aggregator,
		Publisher:   publisher,
		Tokens:      tokens,
		Log:         logger,
	}
}

func (r *auditorReview) Review() models.AuditReview {
	r.mu.Lock()
	defer r.mu.Unlock()

	review := r.review
	review.Pillars = make([]models.ReviewPillar, len(r.review.Pillars))
	for i, pillar := range r.review.Pillars {
		questions := make([]models.ReviewQuestion, len(pillar.Questions))
		for j, question := range pillar.Questions {
			question.Evidence = append([]string(nil), question.Evidence...)
			question.CriteriaOptions = append([]models.Criteria(nil), question.CriteriaOptions...)
			question.AuditorCriteriaID = nil
			if criteriaID, ok := r.scores[question.ID]; ok {
				selected := criteriaID
				question.AuditorCriteriaID = &selected
			}
			questions[j] = question
		}
		pillar.Questions = questions
		review.Pillars[i] = pillar
	}
	return review
}

func (r *auditorReview) Scores() map[int64]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	scores := make(map[int64]int64, len(r.scores))
	for questionID, criteriaID := range r.scores {
		scores[questionID] = criteriaID
	}
	return scores
}

func (r *auditorReview) Locked() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.review.AuditorSubmitted
}

func (r *auditorReview) RecordAuditorScore(questionID, criteriaID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.review.AuditorSubmitted || r.submitting {
		return exceptions.ErrAuditorLocked(nil)
	}

	question, ok := r.findQuestion(questionID)
	if !ok {
		return exceptions.ErrQuestionNotFound(nil, questionID)
	}
	if _, ok := question.FindCriteria(criteriaID); !ok {
		return exceptions.ErrInvalidCriteria(nil, criteriaID, questionID)
	}

	r.scores[questionID] = criteriaID
	return nil
}

func (r *auditorReview) IsComplete() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	scored, total := r.progress()
	return total > 0 && scored == total
}

// SubmitAuditorScores sends every score and locks the review. Reads stay
// available while the request is in flight; score edits are refused.
func (r *auditorReview) SubmitAuditorScores(ctx context.Context) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	r.submitMu.Lock()
	defer r.submitMu.Unlock()

	r.mu.Lock()
	companyID := r.review.CompanyID
	r.Log.Info("auditorReview.SubmitAuditorScores called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingCompanyIDKey, companyID),
	)

	if r.review.AuditorSubmitted {
		r.mu.Unlock()
		return nil
	}

	scored, total := r.progress()
	if total == 0 || scored != total {
		r.mu.Unlock()
		return exceptions.ErrAuditIncomplete(nil, scored, total)
	}

	request := &requests.HICMAuditScores{Scores: make([]models.AuditorScore, 0, total)}
	for _, pillar := range r.review.Pillars {
		for _, question := range pillar.Questions {
			request.Scores = append(request.Scores, models.AuditorScore{
				AssessmentID:         question.ID,
				EvaluationCriteriaID: r.scores[question.ID],
			})
		}
	}
	r.submitting = true
	r.mu.Unlock()

	outcome, err := r.AuditClient.SubmitScores(ctx, companyID, r.Tokens.Token(), request)
	monitoring.SubmissionCounter.WithLabelValues(submissionKindAudit, outcome.String()).Inc()
	if !outcome.Locks() {
		r.mu.Lock()
		r.submitting = false
		r.mu.Unlock()

		if err == nil {
			err = exceptions.ErrHICMRequest(errors.New("audit scores were not accepted"), 0, outcome.String())
		}
		r.Log.Error("auditorReview.SubmitAuditorScores error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	r.mu.Lock()
	submittedAt := r.clock()
	r.submitting = false
	r.review.AuditorSubmitted = true
	r.review.AuditorSubmittedAt = &submittedAt
	r.mu.Unlock()

	r.publish(ctx, outcome, submittedAt)

	r.Log.Info("auditorReview.SubmitAuditorScores succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOutcomeKey, outcome.String()),
	)
	return nil
}

func (r *auditorReview) Aggregate() models.AggregateScore {
	r.mu.Lock()
	pillars, answers := r.scoringInput()
	r.mu.Unlock()
	return r.Aggregator.Aggregate(pillars, answers)
}

func (r *auditorReview) WeightedResults() models.SummaryResults {
	r.mu.Lock()
	pillars, answers := r.scoringInput()
	r.mu.Unlock()
	return r.Aggregator.WeightedResults(pillars, answers)
}

// scoringInput projects the criteria onto the aggregator's input. The
// review keeps criteria and company choices apart; only this view lines
// them up for scoring.
func (r *auditorReview) scoringInput() ([]models.Pillar, map[int64]int64) {
	pillars := make([]models.Pillar, 0, len(r.review.Pillars))
	for _, reviewPillar := range r.review.Pillars {
		pillar := models.Pillar{
			Key:       reviewPillar.Key,
			Name:      reviewPillar.Title,
			Questions: make([]models.Question, 0, len(reviewPillar.Questions)),
		}
		for _, reviewQuestion := range reviewPillar.Questions {
			question := models.Question{
				ID:      reviewQuestion.ID,
				Title:   reviewQuestion.Question,
				Choices: make([]models.Choice, 0, len(reviewQuestion.CriteriaOptions)),
			}
			for _, criteria := range reviewQuestion.CriteriaOptions {
				question.Choices = append(question.Choices, models.Choice{
					ID:    criteria.ID,
					Label: criteria.Name,
					Score: criteria.Score,
				})
			}
			pillar.Questions = append(pillar.Questions, question)
		}
		pillars = append(pillars, pillar)
	}

	answers := make(map[int64]int64, len(r.scores))
	for questionID, criteriaID := range r.scores {
		answers[questionID] = criteriaID
	}
	return pillars, answers
}

func (r *auditorReview) progress() (scored, total int) {
	for _, pillar := range r.review.Pillars {
		for _, question := range pillar.Questions {
			total++
			if _, ok := r.scores[question.ID]; ok {
				scored++
			}
		}
	}
	return scored, total
}

func (r *auditorReview) findQuestion(questionID int64) (*models.ReviewQuestion, bool) {
	for i := range r.review.Pillars {
		questions := r.review.Pillars[i].Questions
		for j := range questions {
			if questions[j].ID == questionID {
				return &questions[j], true
			}
		}
	}
	return nil, false
}

func (r *auditorReview) publish(ctx context.Context, outcome models.Outcome, occurredAt time.Time) {
	if r.Publisher == nil {
		return
	}

	_, err := r.Publisher.Publish(ctx, &contracts.PublishEventInput{
		Event: contracts.SubmissionEvent{
			ID:           utils.GenerateEventID(),
			Type:         constvars.EventTypeAuditLocked,
			RespondentID: r.auditorID,
			CompanyID:    r.review.CompanyID,
			Outcome:      outcome.String(),
			OccurredAt:   occurredAt,
		},
	})
	if err != nil {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		r.Log.Warn("auditorReview.publish error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
}

// buildReview maps backend pillars onto catalog keys by position and
// prefills the auditor's saved criteria.
func buildReview(submission *responses.HICMAuditSubmission) (models.AuditReview, map[int64]int64) {
	review := models.AuditReview{
		CompanyID:          submission.CompanyID,
		CompanyName:        submission.CompanyName,
		CompanyType:        stringValue(submission.CompanyType),
		CompanyAddress:     stringValue(submission.CompanyAddress),
		RoundAssessment:    stringValue(submission.RoundAssessment),
		Status:             submission.Status,
		SubmittedAt:        utils.ParseTimestamp(submission.SubmittedAt),
		CompanyScore:       submission.Score,
		AuditorSubmitted:   submission.AuditorSubmitted,
		AuditorSubmittedAt: utils.ParseTimestamp(submission.AuditorSubmittedAt),
		Pillars:            make([]models.ReviewPillar, 0, len(submission.Pillars)),
	}
	scores := make(map[int64]int64)

	for i, rawPillar := range submission.Pillars {
		pillar := models.ReviewPillar{
			Title:     rawPillar.Title,
			Questions: make([]models.ReviewQuestion, 0, len(rawPillar.Questions)),
		}
		if i < len(models.PillarCatalog) {
			pillar.Key = models.PillarCatalog[i].Key
		}

		for _, rawQuestion := range rawPillar.Questions {
			question := models.ReviewQuestion{
				ID:                 rawQuestion.ID,
				Question:           rawQuestion.Question,
				Description:        stringValue(rawQuestion.Description),
				PerformanceResults: stringValue(rawQuestion.PerformanceResults),
				Answer:             stringValue(rawQuestion.Answer),
				Evidence:           append([]string{}, rawQuestion.Evidence...),
				CriteriaOptions:    make([]models.Criteria, 0, len(rawQuestion.CriteriaOptions)),
			}
			if rawQuestion.Score != nil {
				companyScore := pointValue(*rawQuestion.Score)
				question.CompanyScore = &companyScore
			}
			for _, option := range rawQuestion.CriteriaOptions {
				criteria := models.Criteria{ID: option.ID, Name: option.Name}
				if option.Score != nil {
					criteria.Score = pointValue(*option.Score)
				}
				question.CriteriaOptions = append(question.CriteriaOptions, criteria)
			}
			if rawQuestion.AuditorScoreCriteriaID != nil {
				if _, ok := question.FindCriteria(*rawQuestion.AuditorScoreCriteriaID); ok {
					scores[question.ID] = *rawQuestion.AuditorScoreCriteriaID
				}
			}
			pillar.Questions = append(pillar.Questions, question)
		}
		review.Pillars = append(review.Pillars, pillar)
	}
	return review, scores
}

// pointValue reads a backend point score. Fractions are converted to the
// raw question scale, anything else is already raw.
func pointValue(value float64) float64 {
	if scoring.IsPointFraction(value) {
		return scoring.PointToScore(value)
	}
	return value
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
