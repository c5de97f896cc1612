package controllers

import (
	"context"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/dto/requests"
	"hicm-service/internal/pkg/dto/responses"
	"hicm-service/internal/pkg/exceptions"
	"hicm-service/internal/pkg/utils"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type AuditController struct {
	Log            *zap.Logger
	Sessions       contracts.SessionManager
	Reports        contracts.ReportUsecase
	HandlerTimeout time.Duration
}

func NewAuditController(logger *zap.Logger, sessions contracts.SessionManager, reports contracts.ReportUsecase, handlerTimeout time.Duration) *AuditController {
	return &AuditController{
		Log:            logger,
		Sessions:       sessions,
		Reports:        reports,
		HandlerTimeout: handlerTimeout,
	}
}

func (ctrl *AuditController) GetReview(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("AuditController.GetReview requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	review, ok := ctrl.openReview(w, r, requestID)
	if !ok {
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAuditReviewSuccessMessage, reviewView(review))
}

func (ctrl *AuditController) RecordScore(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("AuditController.RecordScore requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	questionID, err := parseIDParam(r, constvars.URLParamQuestionID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.RecordAuditorScore)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	review, ok := ctrl.openReview(w, r, requestID)
	if !ok {
		return
	}

	if err := review.RecordAuditorScore(questionID, request.CriteriaID); err != nil {
		ctrl.Log.Error("AuditController.RecordScore error recording score",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int64(constvars.LoggingQuestionIDKey, questionID),
			zap.Int64(constvars.LoggingCriteriaIDKey, request.CriteriaID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RecordAuditScoreMessage, reviewView(review))
}

func (ctrl *AuditController) Submit(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("AuditController.Submit requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	review, ok := ctrl.openReview(w, r, requestID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.HandlerTimeout)
	defer cancel()

	if err := review.SubmitAuditorScores(ctx); err != nil {
		ctrl.Log.Error("AuditController.Submit error from review",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		buildUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SubmitAuditScoresMessage, reviewView(review))
}

func (ctrl *AuditController) GetCertificate(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("AuditController.GetCertificate requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	review, ok := ctrl.openReview(w, r, requestID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.HandlerTimeout)
	defer cancel()

	certificate, err := ctrl.Reports.Certificate(ctx, review)
	if err != nil {
		ctrl.Log.Error("AuditController.GetCertificate error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		buildUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetCertificateSuccessMessage, certificate)
}

func (ctrl *AuditController) openReview(w http.ResponseWriter, r *http.Request, requestID string) (contracts.AuditorReview, bool) {
	companyID, err := parseIDParam(r, constvars.URLParamCompanyID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.HandlerTimeout)
	defer cancel()

	review, err := ctrl.Sessions.OpenReview(ctx, companyID, utils.RespondentIDFromContext(r.Context()), utils.BearerTokenFromContext(r.Context()))
	if err != nil {
		ctrl.Log.Error("AuditController.openReview error from session manager",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int64(constvars.LoggingCompanyIDKey, companyID),
			zap.Error(err),
		)
		buildUsecaseError(ctrl.Log, w, err)
		return nil, false
	}
	return review, true
}

func reviewView(review contracts.AuditorReview) *responses.AuditReview {
	return &responses.AuditReview{
		Review:     review.Review(),
		Scores:     review.Scores(),
		IsComplete: review.IsComplete(),
		Aggregate:  review.Aggregate(),
	}
}
