package routers

import (
	"hicm-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachSummaryRoutes(router chi.Router, summaryController *controllers.SummaryController) {
	router.Get("/status", summaryController.GetStatus)
	router.Get("/results", summaryController.GetResults)
	router.Post("/submit", summaryController.Submit)
}
