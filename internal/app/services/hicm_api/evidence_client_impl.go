package hicmapi

import (
	"bytes"
	"context"
	"fmt"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/app/models"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/dto/responses"
	"hicm-service/internal/pkg/exceptions"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"go.uber.org/zap"
)

type evidenceClient struct {
	transport *transport
	Log       *zap.Logger
}

func NewEvidenceClient(opts Options, logger *zap.Logger) contracts.EvidenceClient {
	return &evidenceClient{
		transport: newTransport(opts, logger),
		Log:       logger,
	}
}

func (c *evidenceClient) UploadEvidence(ctx context.Context, questionID int64, token string, files []models.EvidenceFile) ([]responses.HICMEvidenceItem, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("evidenceClient.UploadEvidence called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingQuestionIDKey, questionID),
		zap.Int(constvars.LoggingFileCountKey, len(files)),
	)

	body, contentType, err := buildEvidenceBody(files)
	if err != nil {
		return nil, exceptions.ErrBuildMultipartBody(err)
	}

	resp, err := c.transport.do(ctx, outboundRequest{
		operation:   "upload_evidence",
		method:      constvars.MethodPost,
		path:        fmt.Sprintf("/assessments/%d/evidence", questionID),
		token:       token,
		body:        body,
		contentType: contentType,
	})
	if err != nil {
		return nil, err
	}

	var uploaded responses.HICMEvidenceList
	if err := decode(resp, fmt.Sprintf("question %d", questionID), &uploaded); err != nil {
		c.Log.Error("evidenceClient.UploadEvidence error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("evidenceClient.UploadEvidence succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingItemCountKey, len(uploaded.Items)),
	)
	return uploaded.Items, nil
}

func (c *evidenceClient) ListEvidence(ctx context.Context, questionID int64, token string) ([]responses.HICMEvidenceItem, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("evidenceClient.ListEvidence called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingQuestionIDKey, questionID),
	)

	resp, err := c.transport.do(ctx, outboundRequest{
		operation: "list_evidence",
		method:    constvars.MethodGet,
		path:      fmt.Sprintf("/assessments/%d/evidence", questionID),
		token:     token,
	})
	if err != nil {
		return nil, err
	}

	var listed responses.HICMEvidenceList
	if err := decode(resp, fmt.Sprintf("question %d", questionID), &listed); err != nil {
		c.Log.Error("evidenceClient.ListEvidence error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("evidenceClient.ListEvidence succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingItemCountKey, len(listed.Items)),
	)
	return listed.Items, nil
}

func (c *evidenceClient) DeleteEvidence(ctx context.Context, questionID, evidenceID int64, token string) (*responses.HICMEvidenceDelete, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("evidenceClient.DeleteEvidence called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingQuestionIDKey, questionID),
		zap.Int64(constvars.LoggingEvidenceIDKey, evidenceID),
	)

	resp, err := c.transport.do(ctx, outboundRequest{
		operation: "delete_evidence",
		method:    constvars.MethodDelete,
		path:      fmt.Sprintf("/assessments/%d/evidence/%d", questionID, evidenceID),
		token:     token,
	})
	if err != nil {
		return nil, err
	}

	var deleted responses.HICMEvidenceDelete
	if err := decode(resp, fmt.Sprintf("evidence %d", evidenceID), &deleted); err != nil {
		c.Log.Error("evidenceClient.DeleteEvidence error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("evidenceClient.DeleteEvidence succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Bool(constvars.LoggingSuccessKey, deleted.Success),
	)
	return &deleted, nil
}

func buildEvidenceBody(files []models.EvidenceFile) (io.Reader, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, file := range files {
		contentType := file.ContentType
		if contentType == "" {
			contentType = constvars.MIMEOctetStream
		}

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			constvars.EvidenceFormField, escapeQuotes(file.FileName)))
		header.Set(constvars.HeaderContentType, contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if file.Content != nil {
			if _, err := io.Copy(part, file.Content); err != nil {
				return nil, "", err
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
