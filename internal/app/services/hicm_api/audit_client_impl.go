package hicmapi

import (
	"bytes"
	"context"
	"fmt"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/app/models"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/dto/requests"
	"hicm-service/internal/pkg/dto/responses"
	"hicm-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type auditClient struct {
	transport *transport
	Log       *zap.Logger
}

// NewAuditClient talks to the audit base URL, which differs from the
// company base used by the other clients.
func NewAuditClient(opts Options, logger *zap.Logger) contracts.AuditClient {
	return &auditClient{
		transport: newTransport(opts, logger),
		Log:       logger,
	}
}

func (c *auditClient) FindSubmission(ctx context.Context, companyID int64, token string) (*responses.HICMAuditSubmission, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("auditClient.FindSubmission called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingCompanyIDKey, companyID),
	)

	resp, err := c.transport.do(ctx, outboundRequest{
		operation: "find_audit_submission",
		method:    constvars.MethodGet,
		path:      fmt.Sprintf("/submissions/%d", companyID),
		token:     token,
	})
	if err != nil {
		return nil, err
	}

	var submission responses.HICMAuditSubmission
	if err := decode(resp, fmt.Sprintf("company submission %d", companyID), &submission); err != nil {
		c.Log.Error("auditClient.FindSubmission error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("auditClient.FindSubmission succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingItemCountKey, len(submission.Pillars)),
		zap.Bool(constvars.LoggingLockedKey, submission.AuditorSubmitted),
	)
	return &submission, nil
}

func (c *auditClient) SubmitScores(ctx context.Context, companyID int64, token string, request *requests.HICMAuditScores) (models.Outcome, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("auditClient.SubmitScores called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingCompanyIDKey, companyID),
		zap.Int(constvars.LoggingItemCountKey, len(request.Scores)),
	)

	requestJSON, err := json.Marshal(request)
	if err != nil {
		return models.OutcomeFailure, exceptions.ErrCannotMarshalJSON(err)
	}

	resp, err := c.transport.do(ctx, outboundRequest{
		operation:   "submit_audit_scores",
		method:      constvars.MethodPost,
		path:        fmt.Sprintf("/submissions/%d/scores", companyID),
		token:       token,
		body:        bytes.NewReader(requestJSON),
		contentType: constvars.MIMEApplicationJSON,
	})
	if err != nil {
		return models.OutcomeFailure, err
	}

	outcome := ClassifyOutcome(resp.StatusCode, resp.Body, nil)
	if outcome == models.OutcomeFailure {
		err := decode(resp, fmt.Sprintf("company submission %d", companyID), nil)
		c.Log.Error("auditClient.SubmitScores error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return outcome, err
	}

	c.Log.Info("auditClient.SubmitScores succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOutcomeKey, outcome.String()),
	)
	return outcome, nil
}
