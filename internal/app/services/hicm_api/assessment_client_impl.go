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
	"net/url"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type assessmentClient struct {
	transport *transport
	Log       *zap.Logger
}

func NewAssessmentClient(opts Options, logger *zap.Logger) contracts.AssessmentClient {
	return &assessmentClient{
		transport: newTransport(opts, logger),
		Log:       logger,
	}
}

func (c *assessmentClient) FindPillar(ctx context.Context, pillarKey, token string) (*responses.HICMPillar, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("assessmentClient.FindPillar called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPillarKey, pillarKey),
	)

	resp, err := c.transport.do(ctx, outboundRequest{
		operation: "find_pillar",
		method:    constvars.MethodGet,
		path:      fmt.Sprintf("/assessments/%s", url.PathEscape(pillarKey)),
		token:     token,
	})
	if err != nil {
		return nil, err
	}

	var pillar responses.HICMPillar
	if err := decode(resp, "pillar "+pillarKey, &pillar); err != nil {
		c.Log.Error("assessmentClient.FindPillar error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("assessmentClient.FindPillar succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingItemCountKey, len(pillar.Questions)),
	)
	return &pillar, nil
}

func (c *assessmentClient) FindDraft(ctx context.Context, pillarKey, respondentID, token string) (*responses.HICMDraft, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("assessmentClient.FindDraft called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPillarKey, pillarKey),
		zap.String(constvars.LoggingRespondentIDKey, respondentID),
	)

	resp, err := c.transport.do(ctx, outboundRequest{
		operation: "find_draft",
		method:    constvars.MethodGet,
		path:      fmt.Sprintf("/assessments/%s/draft", url.PathEscape(pillarKey)),
		query:     userIDQuery(respondentID),
		token:     token,
	})
	if err != nil {
		return nil, err
	}

	var draft responses.HICMDraft
	if err := decode(resp, "draft "+pillarKey, &draft); err != nil {
		c.Log.Error("assessmentClient.FindDraft error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("assessmentClient.FindDraft succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingItemCountKey, len(draft.Items)),
	)
	return &draft, nil
}

func (c *assessmentClient) AutoSave(ctx context.Context, pillarKey, token string, request *requests.HICMAutoSave) (*responses.HICMAutoSave, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("assessmentClient.AutoSave called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPillarKey, pillarKey),
		zap.Int(constvars.LoggingItemCountKey, len(request.Items)),
	)

	requestJSON, err := json.Marshal(request)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	resp, err := c.transport.do(ctx, outboundRequest{
		operation:   "auto_save",
		method:      constvars.MethodPost,
		path:        fmt.Sprintf("/assessments/%s/auto-save", url.PathEscape(pillarKey)),
		token:       token,
		body:        bytes.NewReader(requestJSON),
		contentType: constvars.MIMEApplicationJSON,
	})
	if err != nil {
		return nil, err
	}

	if !isSuccessStatus(resp.StatusCode) && ClassifyOutcome(resp.StatusCode, resp.Body, nil) == models.OutcomeAlreadyDone {
		c.Log.Warn("assessmentClient.AutoSave refused, pillar already submitted",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		)
		return nil, exceptions.ErrHICMAlreadySubmitted(errorDetail(resp.Body))
	}

	var saved responses.HICMAutoSave
	if err := decode(resp, "draft "+pillarKey, &saved); err != nil {
		c.Log.Error("assessmentClient.AutoSave error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("assessmentClient.AutoSave succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingItemCountKey, saved.Saved),
	)
	return &saved, nil
}

func (c *assessmentClient) Submit(ctx context.Context, pillarKey, token string, request *requests.HICMSubmit) (models.Outcome, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("assessmentClient.Submit called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPillarKey, pillarKey),
	)

	requestJSON, err := json.Marshal(request)
	if err != nil {
		return models.OutcomeFailure, exceptions.ErrCannotMarshalJSON(err)
	}

	resp, err := c.transport.do(ctx, outboundRequest{
		operation:   "submit_pillar",
		method:      constvars.MethodPost,
		path:        fmt.Sprintf("/assessments/%s/submit", url.PathEscape(pillarKey)),
		token:       token,
		body:        bytes.NewReader(requestJSON),
		contentType: constvars.MIMEApplicationJSON,
	})
	if err != nil {
		return models.OutcomeFailure, err
	}

	outcome := ClassifyOutcome(resp.StatusCode, resp.Body, nil)
	if outcome == models.OutcomeFailure {
		err := decode(resp, "submission "+pillarKey, nil)
		c.Log.Error("assessmentClient.Submit error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return outcome, err
	}

	c.Log.Info("assessmentClient.Submit succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOutcomeKey, outcome.String()),
	)
	return outcome, nil
}

func (c *assessmentClient) FindSubmitStatus(ctx context.Context, pillarKey, respondentID, token string) (*responses.HICMSubmitStatus, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("assessmentClient.FindSubmitStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPillarKey, pillarKey),
	)

	resp, err := c.transport.do(ctx, outboundRequest{
		operation: "find_submit_status",
		method:    constvars.MethodGet,
		path:      fmt.Sprintf("/assessments/%s/submit-status", url.PathEscape(pillarKey)),
		query:     userIDQuery(respondentID),
		token:     token,
	})
	if err != nil {
		return nil, err
	}

	var status responses.HICMSubmitStatus
	if err := decode(resp, "submit status "+pillarKey, &status); err != nil {
		c.Log.Error("assessmentClient.FindSubmitStatus error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("assessmentClient.FindSubmitStatus succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Bool(constvars.LoggingSuccessKey, status.Submitted),
	)
	return &status, nil
}
