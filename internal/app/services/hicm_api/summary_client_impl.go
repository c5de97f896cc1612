package hicmapi

import (
	"bytes"
	"context"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/app/models"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/dto/requests"
	"hicm-service/internal/pkg/dto/responses"
	"hicm-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type summaryClient struct {
	transport *transport
	Log       *zap.Logger
}

func NewSummaryClient(opts Options, logger *zap.Logger) contracts.SummaryClient {
	return &summaryClient{
		transport: newTransport(opts, logger),
		Log:       logger,
	}
}

func (c *summaryClient) FindStatus(ctx context.Context, respondentID, token string) (*responses.HICMSummaryStatus, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("summaryClient.FindStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRespondentIDKey, respondentID),
	)

	resp, err := c.transport.do(ctx, outboundRequest{
		operation: "find_summary_status",
		method:    constvars.MethodGet,
		path:      "/assessment-summary/status",
		query:     userIDQuery(respondentID),
		token:     token,
	})
	if err != nil {
		return nil, err
	}

	var status responses.HICMSummaryStatus
	if err := decode(resp, "assessment summary", &status); err != nil {
		c.Log.Error("summaryClient.FindStatus error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("summaryClient.FindStatus succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return &status, nil
}

func (c *summaryClient) FindResults(ctx context.Context, respondentID, token string) (*responses.HICMSummaryResults, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("summaryClient.FindResults called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRespondentIDKey, respondentID),
	)

	resp, err := c.transport.do(ctx, outboundRequest{
		operation: "find_summary_results",
		method:    constvars.MethodGet,
		path:      "/assessment-summary/results",
		query:     userIDQuery(respondentID),
		token:     token,
	})
	if err != nil {
		return nil, err
	}

	var results responses.HICMSummaryResults
	if err := decode(resp, "assessment results", &results); err != nil {
		c.Log.Error("summaryClient.FindResults error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("summaryClient.FindResults succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Float64(constvars.LoggingScoreKey, results.OverallScore),
	)
	return &results, nil
}

// Submit returns the backend's submitted_at on Success. AlreadyDone carries
// no body worth decoding, so the returned response is nil.
func (c *summaryClient) Submit(ctx context.Context, token string, request *requests.HICMSubmit) (models.Outcome, *responses.HICMSummarySubmit, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("summaryClient.Submit called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	requestJSON, err := json.Marshal(request)
	if err != nil {
		return models.OutcomeFailure, nil, exceptions.ErrCannotMarshalJSON(err)
	}

	resp, err := c.transport.do(ctx, outboundRequest{
		operation:   "submit_summary",
		method:      constvars.MethodPost,
		path:        "/assessment-summary/submit",
		token:       token,
		body:        bytes.NewReader(requestJSON),
		contentType: constvars.MIMEApplicationJSON,
	})
	if err != nil {
		return models.OutcomeFailure, nil, err
	}

	outcome := ClassifyOutcome(resp.StatusCode, resp.Body, nil)
	switch outcome {
	case models.OutcomeSuccess:
		var submitted responses.HICMSummarySubmit
		if err := decode(resp, "assessment summary", &submitted); err != nil {
			return models.OutcomeFailure, nil, err
		}
		c.Log.Info("summaryClient.Submit succeeded",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOutcomeKey, outcome.String()),
		)
		return outcome, &submitted, nil
	case models.OutcomeAlreadyDone:
		c.Log.Info("summaryClient.Submit succeeded",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOutcomeKey, outcome.String()),
		)
		return outcome, nil, nil
	}

	err = decode(resp, "assessment summary", nil)
	c.Log.Error("summaryClient.Submit error",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Error(err),
	)
	return outcome, nil, err
}
