// Package mocks holds testify mocks of the contracts used across service
// tests.
package mocks

import (
	"context"
	"hicm-service/internal/app/models"
	"hicm-service/internal/pkg/dto/requests"
	"hicm-service/internal/pkg/dto/responses"

	"github.com/stretchr/testify/mock"
)

type MockAssessmentClient struct {
	mock.Mock
}

func (m *MockAssessmentClient) FindPillar(ctx context.Context, pillarKey, token string) (*responses.HICMPillar, error) {
	args := m.Called(ctx, pillarKey, token)
	pillar, _ := args.Get(0).(*responses.HICMPillar)
	return pillar, args.Error(1)
}

func (m *MockAssessmentClient) FindDraft(ctx context.Context, pillarKey, respondentID, token string) (*responses.HICMDraft, error) {
	args := m.Called(ctx, pillarKey, respondentID, token)
	draft, _ := args.Get(0).(*responses.HICMDraft)
	return draft, args.Error(1)
}

func (m *MockAssessmentClient) AutoSave(ctx context.Context, pillarKey, token string, request *requests.HICMAutoSave) (*responses.HICMAutoSave, error) {
	args := m.Called(ctx, pillarKey, token, request)
	saved, _ := args.Get(0).(*responses.HICMAutoSave)
	return saved, args.Error(1)
}

func (m *MockAssessmentClient) Submit(ctx context.Context, pillarKey, token string, request *requests.HICMSubmit) (models.Outcome, error) {
	args := m.Called(ctx, pillarKey, token, request)
	return args.Get(0).(models.Outcome), args.Error(1)
}

func (m *MockAssessmentClient) FindSubmitStatus(ctx context.Context, pillarKey, respondentID, token string) (*responses.HICMSubmitStatus, error) {
	args := m.Called(ctx, pillarKey, respondentID, token)
	status, _ := args.Get(0).(*responses.HICMSubmitStatus)
	return status, args.Error(1)
}

type MockEvidenceClient struct {
	mock.Mock
}

func (m *MockEvidenceClient) UploadEvidence(ctx context.Context, questionID int64, token string, files []models.EvidenceFile) ([]responses.HICMEvidenceItem, error) {
	args := m.Called(ctx, questionID, token, files)
	items, _ := args.Get(0).([]responses.HICMEvidenceItem)
	return items, args.Error(1)
}

func (m *MockEvidenceClient) ListEvidence(ctx context.Context, questionID int64, token string) ([]responses.HICMEvidenceItem, error) {
	args := m.Called(ctx, questionID, token)
	items, _ := args.Get(0).([]responses.HICMEvidenceItem)
	return items, args.Error(1)
}

func (m *MockEvidenceClient) DeleteEvidence(ctx context.Context, questionID, evidenceID int64, token string) (*responses.HICMEvidenceDelete, error) {
	args := m.Called(ctx, questionID, evidenceID, token)
	deleted, _ := args.Get(0).(*responses.HICMEvidenceDelete)
	return deleted, args.Error(1)
}

type MockSummaryClient struct {
	mock.Mock
}

func (m *MockSummaryClient) FindStatus(ctx context.Context, respondentID, token string) (*responses.HICMSummaryStatus, error) {
	args := m.Called(ctx, respondentID, token)
	status, _ := args.Get(0).(*responses.HICMSummaryStatus)
	return status, args.Error(1)
}

func (m *MockSummaryClient) FindResults(ctx context.Context, respondentID, token string) (*responses.HICMSummaryResults, error) {
	args := m.Called(ctx, respondentID, token)
	results, _ := args.Get(0).(*responses.HICMSummaryResults)
	return results, args.Error(1)
}

func (m *MockSummaryClient) Submit(ctx context.Context, token string, request *requests.HICMSubmit) (models.Outcome, *responses.HICMSummarySubmit, error) {
	args := m.Called(ctx, token, request)
	submitted, _ := args.Get(1).(*responses.HICMSummarySubmit)
	return args.Get(0).(models.Outcome), submitted, args.Error(2)
}

type MockAuditClient struct {
	mock.Mock
}

func (m *MockAuditClient) FindSubmission(ctx context.Context, companyID int64, token string) (*responses.HICMAuditSubmission, error) {
	args := m.Called(ctx, companyID, token)
	submission, _ := args.Get(0).(*responses.HICMAuditSubmission)
	return submission, args.Error(1)
}

func (m *MockAuditClient) SubmitScores(ctx context.Context, companyID int64, token string, request *requests.HICMAuditScores) (models.Outcome, error) {
	args := m.Called(ctx, companyID, token, request)
	return args.Get(0).(models.Outcome), args.Error(1)
}
