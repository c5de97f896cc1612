package controllers

import (
	"context"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/app/models"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/dto/requests"
	"hicm-service/internal/pkg/dto/responses"
	"hicm-service/internal/pkg/exceptions"
	"hicm-service/internal/pkg/utils"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type WorkspaceController struct {
	Log            *zap.Logger
	Sessions       contracts.SessionManager
	Aggregator     contracts.ScoringAggregator
	HandlerTimeout time.Duration
}

func NewWorkspaceController(logger *zap.Logger, sessions contracts.SessionManager, aggregator contracts.ScoringAggregator, handlerTimeout time.Duration) *WorkspaceController {
	return &WorkspaceController{
		Log:            logger,
		Sessions:       sessions,
		Aggregator:     aggregator,
		HandlerTimeout: handlerTimeout,
	}
}

func (ctrl *WorkspaceController) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("WorkspaceController.GetWorkspace requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("WorkspaceController.GetWorkspace called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	ws, ok := ctrl.openWorkspace(w, r, requestID)
	if !ok {
		return
	}

	ctrl.Log.Info("WorkspaceController.GetWorkspace succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingWorkspaceKeyName, ws.Key()),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetWorkspaceSuccessMessage, ctrl.view(ws))
}

func (ctrl *WorkspaceController) CloseWorkspace(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("WorkspaceController.CloseWorkspace requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	pillarKey := chi.URLParam(r, constvars.URLParamPillarKey)
	respondentID := utils.RespondentIDFromContext(r.Context())
	if !ctrl.Sessions.CloseWorkspace(pillarKey, respondentID) {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrWorkspaceNotFound(nil, pillarKey))
		return
	}

	ctrl.Log.Info("WorkspaceController.CloseWorkspace succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPillarKey, pillarKey),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CloseWorkspaceSuccessMessage, nil)
}

func (ctrl *WorkspaceController) RecordAnswer(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("WorkspaceController.RecordAnswer requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	questionID, err := parseIDParam(r, constvars.URLParamQuestionID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.RecordAnswer)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("WorkspaceController.RecordAnswer error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ws, ok := ctrl.openWorkspace(w, r, requestID)
	if !ok {
		return
	}

	if err := ws.Drafts().RecordAnswer(questionID, request.ChoiceID); err != nil {
		ctrl.Log.Error("WorkspaceController.RecordAnswer error recording answer",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int64(constvars.LoggingQuestionIDKey, questionID),
			zap.Int64(constvars.LoggingChoiceIDKey, request.ChoiceID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("WorkspaceController.RecordAnswer succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingQuestionIDKey, questionID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RecordAnswerSuccessMessage, ws.Drafts().Snapshot())
}

func (ctrl *WorkspaceController) RecordComment(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("WorkspaceController.RecordComment requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	questionID, err := parseIDParam(r, constvars.URLParamQuestionID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.RecordComment)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ws, ok := ctrl.openWorkspace(w, r, requestID)
	if !ok {
		return
	}

	if err := ws.Drafts().RecordComment(questionID, request.Comment); err != nil {
		ctrl.Log.Error("WorkspaceController.RecordComment error recording comment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int64(constvars.LoggingQuestionIDKey, questionID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RecordCommentSuccessMessage, ws.Drafts().Snapshot())
}

func (ctrl *WorkspaceController) SubmitPillar(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("WorkspaceController.SubmitPillar requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("WorkspaceController.SubmitPillar called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	ws, ok := ctrl.openWorkspace(w, r, requestID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.HandlerTimeout)
	defer cancel()

	submission, err := ws.Submission().Submit(ctx)
	if err != nil {
		ctrl.Log.Error("WorkspaceController.SubmitPillar error from submission",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		buildUsecaseError(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("WorkspaceController.SubmitPillar succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Bool(constvars.LoggingLockedKey, submission.Locked),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SubmitPillarSuccessMessage, submission)
}

func (ctrl *WorkspaceController) GetPillarScore(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("WorkspaceController.GetPillarScore requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	ws, ok := ctrl.openWorkspace(w, r, requestID)
	if !ok {
		return
	}

	score := ctrl.Aggregator.ScorePillar(ws.Pillar(), ws.Drafts().Snapshot().Answers)
	ctrl.Log.Info("WorkspaceController.GetPillarScore succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Float64(constvars.LoggingScoreKey, score.Score),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetPillarScoreSuccessMessage, score)
}

// openWorkspace returns the cached workspace or loads it. It writes the
// error response itself when it fails.
func (ctrl *WorkspaceController) openWorkspace(w http.ResponseWriter, r *http.Request, requestID string) (contracts.Workspace, bool) {
	request := &requests.OpenWorkspace{
		PillarKey:    chi.URLParam(r, constvars.URLParamPillarKey),
		RespondentID: utils.RespondentIDFromContext(r.Context()),
	}
	if request.RespondentID == "" {
		request.RespondentID = constvars.AnonymousRespondent
	}
	if err := utils.ValidateStruct(request); err != nil {
		ctrl.Log.Error("WorkspaceController.openWorkspace validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrUnknownPillar(err, request.PillarKey))
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.HandlerTimeout)
	defer cancel()

	ws, err := ctrl.Sessions.OpenWorkspace(ctx, request.PillarKey, request.RespondentID, utils.BearerTokenFromContext(r.Context()))
	if err != nil {
		ctrl.Log.Error("WorkspaceController.openWorkspace error from session manager",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		buildUsecaseError(ctrl.Log, w, err)
		return nil, false
	}
	return ws, true
}

func (ctrl *WorkspaceController) view(ws contracts.Workspace) *responses.Workspace {
	pillar := ws.Pillar()
	draft := ws.Drafts().Snapshot()
	submission := ws.Submission().Snapshot()
	return &responses.Workspace{
		RespondentID: ws.RespondentID(),
		Pillar:       pillar,
		Draft:        draft,
		Evidence:     ws.Evidence().Snapshot(),
		Submission:   submission,
		Status:       ctrl.Aggregator.Status([]models.Pillar{pillar}, draft.Answers, submission.Locked, submission.SubmittedAt),
		Degraded:     ws.Degraded(),
	}
}
