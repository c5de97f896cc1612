package routers

import (
	"hicm-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachAuditRoutes(router chi.Router, auditController *controllers.AuditController) {
	router.Get("/", auditController.GetReview)
	router.Put("/scores/{questionId}", auditController.RecordScore)
	router.Post("/submit", auditController.Submit)
	router.Get("/certificate", auditController.GetCertificate)
}
