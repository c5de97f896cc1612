package controllers

import (
	"context"
	"hicm-service/internal/app/models"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/exceptions"
	"hicm-service/internal/pkg/utils"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"
)

// EvidenceController serves evidence under a pillar workspace. It reuses the
// workspace lookup so lock state is shared with answers and submit.
type EvidenceController struct {
	Log        *zap.Logger
	Workspaces *WorkspaceController
}

func NewEvidenceController(logger *zap.Logger, workspaces *WorkspaceController) *EvidenceController {
	return &EvidenceController{
		Log:        logger,
		Workspaces: workspaces,
	}
}

func (ctrl *EvidenceController) ListEvidence(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("EvidenceController.ListEvidence requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	questionID, err := parseIDParam(r, constvars.URLParamQuestionID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ws, ok := ctrl.Workspaces.openWorkspace(w, r, requestID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.Workspaces.HandlerTimeout)
	defer cancel()

	items, err := ws.Evidence().LoadEvidence(ctx, questionID)
	if err != nil {
		ctrl.Log.Error("EvidenceController.ListEvidence error from tracker",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		buildUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ListEvidenceSuccessMessage, items)
}

func (ctrl *EvidenceController) UploadEvidence(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("EvidenceController.UploadEvidence requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	questionID, err := parseIDParam(r, constvars.URLParamQuestionID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	if err := r.ParseMultipartForm(constvars.MaxMultipartMemory); err != nil {
		ctrl.Log.Error("EvidenceController.UploadEvidence error parsing multipart form",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files, closeFiles, err := evidenceFiles(r.MultipartForm.File[constvars.EvidenceFormField])
	defer closeFiles()
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}

	ws, ok := ctrl.Workspaces.openWorkspace(w, r, requestID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.Workspaces.HandlerTimeout)
	defer cancel()

	items, err := ws.Evidence().UploadEvidence(ctx, questionID, files)
	if err != nil {
		ctrl.Log.Error("EvidenceController.UploadEvidence error from tracker",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		buildUsecaseError(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("EvidenceController.UploadEvidence succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingFileCountKey, len(files)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.UploadEvidenceSuccessMessage, items)
}

func (ctrl *EvidenceController) DeleteEvidence(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("EvidenceController.DeleteEvidence requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	questionID, err := parseIDParam(r, constvars.URLParamQuestionID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	evidenceID, err := parseIDParam(r, constvars.URLParamEvidenceID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ws, ok := ctrl.Workspaces.openWorkspace(w, r, requestID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.Workspaces.HandlerTimeout)
	defer cancel()

	deleted, err := ws.Evidence().DeleteEvidence(ctx, questionID, evidenceID)
	if err != nil {
		ctrl.Log.Error("EvidenceController.DeleteEvidence error from tracker",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int64(constvars.LoggingEvidenceIDKey, evidenceID),
			zap.Error(err),
		)
		buildUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DeleteEvidenceSuccessMessage, map[string]interface{}{
		"deleted": deleted,
		"items":   ws.Evidence().Items(questionID),
	})
}

func evidenceFiles(headers []*multipart.FileHeader) ([]models.EvidenceFile, func(), error) {
	opened := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, file := range opened {
			file.Close()
		}
	}

	files := make([]models.EvidenceFile, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, closeAll, err
		}
		opened = append(opened, file)
		files = append(files, models.EvidenceFile{
			FileName:    header.Filename,
			ContentType: header.Header.Get(constvars.HeaderContentType),
			Content:     file,
		})
	}
	return files, closeAll, nil
}
