package controllers

import (
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/dto/responses"
	"hicm-service/internal/pkg/utils"
	"net/http"
)

type HealthController struct {
	Version string
}

func NewHealthController(version string) *HealthController {
	return &HealthController{Version: version}
}

func (ctrl *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.HealthCheckSuccessMessage, &responses.HealthCheck{
		Service: constvars.ServiceName,
		Version: ctrl.Version,
	})
}
