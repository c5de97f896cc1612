package hicmapi

import (
	"context"
	"errors"
	"hicm-service/internal/app/models"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/dto/requests"
	"hicm-service/internal/pkg/exceptions"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func testOptions(baseUrl string) Options {
	return Options{
		BaseUrl: baseUrl,
		Timeout: 2 * time.Second,
		Limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

func requestContext() context.Context {
	return context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")
}

func TestAssessmentClient_FindPillar(t *testing.T) {
	t.Run("sends bearer and request id", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/company/assessments/pillar-1", r.URL.Path)
			assert.Equal(t, "Bearer tok", r.Header.Get(constvars.HeaderAuthorization))
			assert.Equal(t, "req-1", r.Header.Get(constvars.HeaderXRequestID))
			w.Write([]byte(`{"key":"pillar-1","name":"Health","questions":[{"id":1,"title":"Q1","choices":["Yes","No"]}]}`))
		})

		client := NewAssessmentClient(testOptions(server.URL+"/api/company"), zap.NewNop())
		pillar, err := client.FindPillar(requestContext(), "pillar-1", "tok")
		require.NoError(t, err)
		assert.Equal(t, "pillar-1", pillar.Key)
		require.Len(t, pillar.Questions, 1)
		assert.Len(t, pillar.Questions[0].Choices, 2)
	})

	t.Run("omits authorization for empty token", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, present := r.Header[constvars.HeaderAuthorization]
			assert.False(t, present)
			w.Write([]byte(`{"key":"pillar-2","questions":[]}`))
		})

		client := NewAssessmentClient(testOptions(server.URL), zap.NewNop())
		_, err := client.FindPillar(context.Background(), "pillar-2", "")
		require.NoError(t, err)
	})

	t.Run("maps 404 to not found", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"Pillar not found"}`))
		})

		client := NewAssessmentClient(testOptions(server.URL), zap.NewNop())
		_, err := client.FindPillar(context.Background(), "pillar-9", "tok")
		require.Error(t, err)
		assert.Equal(t, constvars.StatusNotFound, exceptions.StatusCodeOf(err))
	})

	t.Run("maps server error to bad gateway", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail":"boom"}`))
		})

		client := NewAssessmentClient(testOptions(server.URL), zap.NewNop())
		_, err := client.FindPillar(context.Background(), "pillar-1", "tok")
		require.Error(t, err)
		assert.Equal(t, constvars.StatusBadGateway, exceptions.StatusCodeOf(err))
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("times out", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})

		opts := testOptions(server.URL)
		opts.Timeout = 20 * time.Millisecond
		client := NewAssessmentClient(opts, zap.NewNop())
		_, err := client.FindPillar(context.Background(), "pillar-1", "tok")
		require.Error(t, err)
		assert.Equal(t, constvars.StatusGatewayTimeout, exceptions.StatusCodeOf(err))
	})
}

func TestAssessmentClient_FindDraft(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assessments/pillar-1/draft", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("user_id"))
		w.Write([]byte(`{"items":[{"assessment_id":1,"evaluation_criteria_id":11,"performance_results":"done"}]}`))
	})

	client := NewAssessmentClient(testOptions(server.URL), zap.NewNop())
	draft, err := client.FindDraft(context.Background(), "pillar-1", "42", "tok")
	require.NoError(t, err)
	require.Len(t, draft.Items, 1)
	assert.Equal(t, int64(11), *draft.Items[0].EvaluationCriteriaID)
	assert.Equal(t, "done", *draft.Items[0].PerformanceResults)
}

func TestAssessmentClient_AutoSave(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/assessments/pillar-3/auto-save", r.URL.Path)
		assert.Equal(t, constvars.MIMEApplicationJSON, r.Header.Get(constvars.HeaderContentType))

		var body requests.HICMAutoSave
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body.Items, 2)
		require.NotNil(t, body.UserID)
		assert.Equal(t, int64(7), *body.UserID)
		w.Write([]byte(`{"saved":2}`))
	})

	choiceID := int64(3)
	userID := int64(7)
	comment := "note"
	client := NewAssessmentClient(testOptions(server.URL), zap.NewNop())
	saved, err := client.AutoSave(context.Background(), "pillar-3", "tok", &requests.HICMAutoSave{
		Items: []models.DraftItem{
			{AssessmentID: 1, EvaluationCriteriaID: &choiceID},
			{AssessmentID: 2, PerformanceResults: &comment},
		},
		UserID: &userID,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Saved)
}

func TestAssessmentClient_AutoSaveRefused(t *testing.T) {
	tests := []struct {
		name             string
		statusCode       int
		body             string
		alreadySubmitted bool
		wantStatus       int
	}{
		{name: "already submitted detail", statusCode: 400, body: `{"detail":"Assessment already submitted"}`, alreadySubmitted: true, wantStatus: constvars.StatusConflict},
		{name: "conflict", statusCode: 409, body: `{}`, alreadySubmitted: true, wantStatus: constvars.StatusConflict},
		{name: "plain bad request", statusCode: 400, body: `{"detail":"Invalid item"}`, wantStatus: constvars.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/assessments/pillar-1/auto-save", r.URL.Path)
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			})

			choiceID := int64(3)
			client := NewAssessmentClient(testOptions(server.URL), zap.NewNop())
			saved, err := client.AutoSave(requestContext(), "pillar-1", "tok", &requests.HICMAutoSave{
				Items: []models.DraftItem{{AssessmentID: 1, EvaluationCriteriaID: &choiceID}},
			})
			require.Error(t, err)
			assert.Nil(t, saved)
			assert.Equal(t, tt.alreadySubmitted, exceptions.IsAlreadySubmitted(err))
			assert.Equal(t, tt.wantStatus, exceptions.StatusCodeOf(err))
		})
	}
}

func TestAssessmentClient_Submit(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		want       models.Outcome
		wantErr    bool
	}{
		{name: "success", statusCode: 200, body: `{"updated":5}`, want: models.OutcomeSuccess},
		{name: "already submitted", statusCode: 400, body: `{"detail":"Assessment already submitted"}`, want: models.OutcomeAlreadyDone},
		{name: "conflict", statusCode: 409, body: `{}`, want: models.OutcomeAlreadyDone},
		{name: "failure", statusCode: 400, body: `{"detail":"Submit status not found"}`, want: models.OutcomeFailure, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/assessments/pillar-1/submit", r.URL.Path)
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			})

			client := NewAssessmentClient(testOptions(server.URL), zap.NewNop())
			outcome, err := client.Submit(context.Background(), "pillar-1", "tok", &requests.HICMSubmit{})
			assert.Equal(t, tt.want, outcome)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEvidenceClient_UploadEvidence(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assessments/12/evidence", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		files := r.MultipartForm.File[constvars.EvidenceFormField]
		require.Len(t, files, 2)
		assert.Equal(t, "a.pdf", files[0].Filename)
		assert.Equal(t, "application/pdf", files[0].Header.Get(constvars.HeaderContentType))

		opened, err := files[1].Open()
		require.NoError(t, err)
		content, _ := io.ReadAll(opened)
		assert.Equal(t, "second", string(content))

		w.Write([]byte(`{"items":[{"id":1,"file_path":"/uploads/evidence/a.pdf"},{"id":2,"url":"https://cdn/b.png"}]}`))
	})

	client := NewEvidenceClient(testOptions(server.URL), zap.NewNop())
	items, err := client.UploadEvidence(context.Background(), 12, "tok", []models.EvidenceFile{
		{FileName: "a.pdf", ContentType: "application/pdf", Content: strings.NewReader("first")},
		{FileName: "b.png", Content: strings.NewReader("second")},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[1].ID)
}

func TestEvidenceClient_DeleteEvidence(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/assessments/12/evidence/5", r.URL.Path)
		w.Write([]byte(`{"success":true}`))
	})

	client := NewEvidenceClient(testOptions(server.URL), zap.NewNop())
	deleted, err := client.DeleteEvidence(context.Background(), 12, 5, "tok")
	require.NoError(t, err)
	assert.True(t, deleted.Success)
}

func TestSummaryClient_Submit(t *testing.T) {
	t.Run("success returns submitted_at", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"submitted_at":"2025-01-02T03:04:05"}`))
		})

		client := NewSummaryClient(testOptions(server.URL), zap.NewNop())
		outcome, submitted, err := client.Submit(context.Background(), "tok", &requests.HICMSubmit{})
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeSuccess, outcome)
		require.NotNil(t, submitted.SubmittedAt)
		assert.Equal(t, "2025-01-02T03:04:05", *submitted.SubmittedAt)
	})

	t.Run("already submitted", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"Assessment already submitted"}`))
		})

		client := NewSummaryClient(testOptions(server.URL), zap.NewNop())
		outcome, submitted, err := client.Submit(context.Background(), "tok", &requests.HICMSubmit{})
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeAlreadyDone, outcome)
		assert.Nil(t, submitted)
	})
}

func TestAuditClient(t *testing.T) {
	t.Run("find submission", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/audit/submissions/9", r.URL.Path)
			w.Write([]byte(`{"company_id":9,"company_name":"Acme","status":"submitted","auditor_submitted":false,"pillars":[{"title":"Health","questions":[{"id":1,"question":"Q","criteria_options":[{"id":3,"name":"Full","score":1}],"evidence":[]}]}]}`))
		})

		client := NewAuditClient(testOptions(server.URL+"/api/audit"), zap.NewNop())
		submission, err := client.FindSubmission(context.Background(), 9, "tok")
		require.NoError(t, err)
		assert.Equal(t, "Acme", submission.CompanyName)
		require.Len(t, submission.Pillars, 1)
		assert.Equal(t, int64(3), submission.Pillars[0].Questions[0].CriteriaOptions[0].ID)
	})

	t.Run("scores already submitted", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			var body requests.HICMAuditScores
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Len(t, body.Scores, 1)
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"Scores already submitted"}`))
		})

		client := NewAuditClient(testOptions(server.URL), zap.NewNop())
		outcome, err := client.SubmitScores(context.Background(), 9, "tok", &requests.HICMAuditScores{
			Scores: []models.AuditorScore{{AssessmentID: 1, EvaluationCriteriaID: 3}},
		})
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeAlreadyDone, outcome)
	})

	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		baseUrl := server.URL
		server.Close()

		client := NewAuditClient(testOptions(baseUrl), zap.NewNop())
		outcome, err := client.SubmitScores(context.Background(), 9, "tok", &requests.HICMAuditScores{})
		require.Error(t, err)
		assert.Equal(t, models.OutcomeFailure, outcome)

		var customErr *exceptions.CustomError
		assert.True(t, errors.As(err, &customErr))
		assert.Equal(t, constvars.StatusBadGateway, customErr.StatusCode)
	})
}
