package controllers

import (
	"context"
	"errors"
	"hicm-service/internal/pkg/exceptions"
	"hicm-service/internal/pkg/utils"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := utils.ParseID(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		if err == nil {
			err = errors.New("id must be positive")
		}
		return 0, exceptions.ErrURLParamIDValidation(err, name)
	}
	return id, nil
}

func buildUsecaseError(log *zap.Logger, w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(log, w, err)
}
