package routers

import (
	"hicm-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachWorkspaceRoutes(router chi.Router, workspaceController *controllers.WorkspaceController, evidenceController *controllers.EvidenceController) {
	router.Get("/workspace", workspaceController.GetWorkspace)
	router.Delete("/workspace", workspaceController.CloseWorkspace)
	router.Put("/answers/{questionId}", workspaceController.RecordAnswer)
	router.Put("/comments/{questionId}", workspaceController.RecordComment)
	router.Post("/submit", workspaceController.SubmitPillar)
	router.Get("/score", workspaceController.GetPillarScore)

	router.Get("/questions/{questionId}/evidence", evidenceController.ListEvidence)
	router.Post("/questions/{questionId}/evidence", evidenceController.UploadEvidence)
	router.Delete("/questions/{questionId}/evidence/{evidenceId}", evidenceController.DeleteEvidence)
}
