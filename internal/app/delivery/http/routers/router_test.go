package routers

import (
	"bytes"
	"hicm-service/internal/app/config"
	"hicm-service/internal/app/contracts/mocks"
	"hicm-service/internal/app/delivery/http/controllers"
	"hicm-service/internal/app/delivery/http/middlewares"
	"hicm-service/internal/app/models"
	"hicm-service/internal/app/services/core/questionnaires"
	"hicm-service/internal/app/services/core/reports"
	"hicm-service/internal/app/services/core/scoring"
	"hicm-service/internal/app/services/core/session"
	"hicm-service/internal/app/services/shared/kvstore"
	"hicm-service/internal/app/services/shared/scheduler"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/dto/responses"
	"hicm-service/internal/pkg/exceptions"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
}

type testServer struct {
	router     *chi.Mux
	assessment *mocks.MockAssessmentClient
	evidence   *mocks.MockEvidenceClient
	summary    *mocks.MockSummaryClient
	audit      *mocks.MockAuditClient
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	aggregator, err := scoring.NewScoringAggregator(nil)
	require.NoError(t, err)

	s := &testServer{
		router:     chi.NewRouter(),
		assessment: new(mocks.MockAssessmentClient),
		evidence:   new(mocks.MockEvidenceClient),
		summary:    new(mocks.MockSummaryClient),
		audit:      new(mocks.MockAuditClient),
	}

	internalConfig := &config.InternalConfig{
		App: config.App{
			Version:                    "v1",
			EndpointPrefix:             "api",
			MaxRequests:                1000,
			RequestBodyLimitInMegabyte: 1,
		},
	}

	sessions := session.NewSessionManager(
		session.Options{Debounce: 400 * time.Millisecond, PublicBaseUrl: "http://backend:8000"},
		session.Dependencies{
			Questionnaires:   questionnaires.NewQuestionnaireUsecase(s.assessment, nil, 0, logger),
			AssessmentClient: s.assessment,
			EvidenceClient:   s.evidence,
			AuditClient:      s.audit,
			Cache:            kvstore.NewMemoryKeyValueStore(),
			Scheduler:        scheduler.NewManualScheduler(),
			Aggregator:       aggregator,
		},
		logger,
	)
	reportUsecase := reports.NewReportUsecase(reports.Options{}, s.summary, aggregator, nil, nil, logger)

	workspaceController := controllers.NewWorkspaceController(logger, sessions, aggregator, 5*time.Second)
	SetupRoutes(s.router, internalConfig, middlewares.NewMiddlewares(logger, internalConfig), Controllers{
		Workspace: workspaceController,
		Evidence:  controllers.NewEvidenceController(logger, workspaceController),
		Summary:   controllers.NewSummaryController(logger, reportUsecase, 5*time.Second),
		Audit:     controllers.NewAuditController(logger, sessions, reportUsecase, 5*time.Second),
		Health:    controllers.NewHealthController("v1"),
	})
	return s
}

func (s *testServer) expectWorkspaceLoad(submitted bool) {
	s.assessment.On("FindPillar", mock.Anything, constvars.PillarKeyHealthPromotion, "tok").Return(&responses.HICMPillar{
		Key: constvars.PillarKeyHealthPromotion,
		Questions: []responses.HICMQuestion{
			{ID: 1, Title: "Q1", Choices: []json.RawMessage{
				json.RawMessage(`{"id":11,"label":"No","score":0}`),
				json.RawMessage(`{"id":12,"label":"Yes","score":20}`),
			}},
		},
	}, nil).Once()
	s.assessment.On("FindDraft", mock.Anything, constvars.PillarKeyHealthPromotion, "42", "tok").
		Return(&responses.HICMDraft{}, nil).Once()
	s.assessment.On("FindSubmitStatus", mock.Anything, constvars.PillarKeyHealthPromotion, "42", "tok").
		Return(&responses.HICMSubmitStatus{Submitted: submitted}, nil).Once()
}

func (s *testServer) do(t *testing.T, method, target string, body []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set(constvars.HeaderAuthorization, "Bearer tok")
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	var decoded envelope
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &decoded), rr.Body.String())
	}
	return rr, decoded
}

func TestRouter_Healthz(t *testing.T) {
	s := newTestServer(t)

	rr, body := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, body.Success)
	assert.NotEmpty(t, rr.Header().Get(constvars.HeaderXRequestID))
}

func TestRouter_WorkspaceFlow(t *testing.T) {
	s := newTestServer(t)
	s.expectWorkspaceLoad(false)

	rr, body := s.do(t, http.MethodGet, "/api/v1/pillars/pillar-1/workspace?user_id=42", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var view responses.Workspace
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.Equal(t, "42", view.RespondentID)
	assert.Len(t, view.Pillar.Questions, 1)
	assert.False(t, view.Submission.Locked)
	assert.Equal(t, 1, view.Status.Total)

	rr, _ = s.do(t, http.MethodPut, "/api/v1/pillars/pillar-1/answers/1?user_id=42", []byte(`{"choice_id":12}`))
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr, body = s.do(t, http.MethodPut, "/api/v1/pillars/pillar-1/answers/1?user_id=42", []byte(`{"choice_id":99}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, body.Success)

	rr, _ = s.do(t, http.MethodPut, "/api/v1/pillars/pillar-1/answers/abc?user_id=42", []byte(`{"choice_id":12}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, body = s.do(t, http.MethodGet, "/api/v1/pillars/pillar-1/score?user_id=42", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var score models.PillarScore
	require.NoError(t, json.Unmarshal(body.Data, &score))
	assert.Equal(t, 20.0, score.Score)

	s.assessment.On("AutoSave", mock.Anything, constvars.PillarKeyHealthPromotion, "tok", mock.Anything).
		Return(&responses.HICMAutoSave{Saved: 1}, nil).Once()
	s.assessment.On("Submit", mock.Anything, constvars.PillarKeyHealthPromotion, "tok", mock.Anything).
		Return(models.OutcomeSuccess, nil).Once()

	rr, body = s.do(t, http.MethodPost, "/api/v1/pillars/pillar-1/submit?user_id=42", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var submission models.PillarSubmission
	require.NoError(t, json.Unmarshal(body.Data, &submission))
	assert.True(t, submission.Locked)

	rr, _ = s.do(t, http.MethodPost, "/api/v1/pillars/pillar-1/submit?user_id=42", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	s.assessment.AssertNumberOfCalls(t, "Submit", 1)

	rr, _ = s.do(t, http.MethodPut, "/api/v1/pillars/pillar-1/answers/1?user_id=42", []byte(`{"choice_id":11}`))
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr, _ = s.do(t, http.MethodDelete, "/api/v1/pillars/pillar-1/workspace?user_id=42", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr, _ = s.do(t, http.MethodDelete, "/api/v1/pillars/pillar-1/workspace?user_id=42", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_UnknownPillar(t *testing.T) {
	s := newTestServer(t)

	rr, body := s.do(t, http.MethodGet, "/api/v1/pillars/pillar-9/workspace?user_id=42", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, http.StatusNotFound, body.StatusCode)
	s.assessment.AssertNotCalled(t, "FindPillar", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_UploadEvidence(t *testing.T) {
	s := newTestServer(t)
	s.expectWorkspaceLoad(false)

	var payload bytes.Buffer
	writer := multipart.NewWriter(&payload)
	part, err := writer.CreateFormFile(constvars.EvidenceFormField, "policy.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	path := "/media/evidence/policy.pdf"
	s.evidence.On("UploadEvidence", mock.Anything, int64(1), "tok", mock.MatchedBy(func(files []models.EvidenceFile) bool {
		return len(files) == 1 && files[0].FileName == "policy.pdf"
	})).Return([]responses.HICMEvidenceItem{{ID: 3, FilePath: &path}}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pillars/pillar-1/questions/1/evidence?user_id=42", &payload)
	req.Header.Set(constvars.HeaderAuthorization, "Bearer tok")
	req.Header.Set(constvars.HeaderContentType, writer.FormDataContentType())
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var body envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	var items []models.EvidenceItem
	require.NoError(t, json.Unmarshal(body.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "http://backend:8000/media/evidence/policy.pdf", items[0].URL)
	assert.Equal(t, "policy.pdf", items[0].Label)
	s.evidence.AssertExpectations(t)
}

func TestRouter_SummarySubmitRequiresRespondent(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/summary/submit", nil)
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	s.summary.AssertNotCalled(t, "FindStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_AuditReviewNotFound(t *testing.T) {
	s := newTestServer(t)
	s.audit.On("FindSubmission", mock.Anything, int64(5), "tok").
		Return(nil, exceptions.ErrHICMNotFound(nil, "submission 5")).Once()

	rr, body := s.do(t, http.MethodGet, "/api/v1/audit/companies/5", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.False(t, body.Success)
}

func TestRouter_AuditScoreFlow(t *testing.T) {
	s := newTestServer(t)
	criteriaScore := 1.0
	s.audit.On("FindSubmission", mock.Anything, int64(5), "tok").Return(&responses.HICMAuditSubmission{
		CompanyID:   5,
		CompanyName: "Acme",
		Pillars: []responses.HICMAuditPillar{{
			Title: "Health",
			Questions: []responses.HICMAuditQuestion{{
				ID:              1,
				Question:        "Q1",
				CriteriaOptions: []responses.HICMCriteriaOption{{ID: 10, Name: "Full", Score: &criteriaScore}},
			}},
		}},
	}, nil).Once()

	rr, body := s.do(t, http.MethodPost, "/api/v1/audit/companies/5/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.False(t, body.Success)

	rr, _ = s.do(t, http.MethodPut, "/api/v1/audit/companies/5/scores/1", []byte(`{"criteria_id":10}`))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	s.audit.On("SubmitScores", mock.Anything, int64(5), "tok", mock.Anything).Return(models.OutcomeAlreadyDone, nil).Once()
	rr, body = s.do(t, http.MethodPost, "/api/v1/audit/companies/5/submit", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var view responses.AuditReview
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.True(t, view.Review.AuditorSubmitted)
	assert.Equal(t, 20.0, view.Aggregate.Overall)

	rr, body = s.do(t, http.MethodGet, "/api/v1/audit/companies/5/certificate", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var certificate models.Certificate
	require.NoError(t, json.Unmarshal(body.Data, &certificate))
	assert.Equal(t, 5, certificate.StarCount)
	s.audit.AssertNumberOfCalls(t, "FindSubmission", 1)
}
