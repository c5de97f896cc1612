package controllers

import (
	"context"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/exceptions"
	"hicm-service/internal/pkg/utils"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type SummaryController struct {
	Log            *zap.Logger
	Reports        contracts.ReportUsecase
	HandlerTimeout time.Duration
}

func NewSummaryController(logger *zap.Logger, reports contracts.ReportUsecase, handlerTimeout time.Duration) *SummaryController {
	return &SummaryController{
		Log:            logger,
		Reports:        reports,
		HandlerTimeout: handlerTimeout,
	}
}

func (ctrl *SummaryController) GetStatus(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("SummaryController.GetStatus requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.HandlerTimeout)
	defer cancel()

	status, err := ctrl.Reports.SummaryStatus(ctx, utils.RespondentIDFromContext(r.Context()), utils.BearerTokenFromContext(r.Context()))
	if err != nil {
		ctrl.Log.Error("SummaryController.GetStatus error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		buildUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetSummaryStatusMessage, status)
}

func (ctrl *SummaryController) GetResults(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("SummaryController.GetResults requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.HandlerTimeout)
	defer cancel()

	results, err := ctrl.Reports.SummaryResults(ctx, utils.RespondentIDFromContext(r.Context()), utils.BearerTokenFromContext(r.Context()))
	if err != nil {
		ctrl.Log.Error("SummaryController.GetResults error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		buildUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetSummaryResultsMessage, results)
}

func (ctrl *SummaryController) Submit(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("SummaryController.Submit requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	respondentID := utils.RespondentIDFromContext(r.Context())
	if respondentID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRespondent(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.HandlerTimeout)
	defer cancel()

	status, err := ctrl.Reports.SubmitSummary(ctx, respondentID, utils.BearerTokenFromContext(r.Context()))
	if err != nil {
		ctrl.Log.Error("SummaryController.Submit error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		buildUsecaseError(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("SummaryController.Submit succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SubmitSummarySuccessMessage, status)
}
