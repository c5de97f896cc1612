package routers

import (
	"fmt"
	"hicm-service/internal/app/config"
	"hicm-service/internal/app/delivery/http/controllers"
	"hicm-service/internal/app/delivery/http/middlewares"
	"hicm-service/internal/app/drivers/monitoring"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Controllers struct {
	Workspace *controllers.WorkspaceController
	Evidence  *controllers.EvidenceController
	Summary   *controllers.SummaryController
	Audit     *controllers.AuditController
	Health    *controllers.HealthController
}

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	controllers Controllers,
) {

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))
	router.Use(middlewares.RateLimit())
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Tracing)
	router.Use(middlewares.Logging(middlewares.Log))
	router.Use(middlewares.Metrics)
	router.Use(middlewares.ErrorHandler)

	router.Get("/healthz", controllers.Health.Healthz)
	router.Handle("/metrics", monitoring.Handler())

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Use(middlewares.BodyLimit)
			r.Use(middlewares.Respondent)

			r.Route("/pillars/{pillarKey}", func(r chi.Router) {
				attachWorkspaceRoutes(r, controllers.Workspace, controllers.Evidence)
			})

			r.Route("/summary", func(r chi.Router) {
				attachSummaryRoutes(r, controllers.Summary)
			})

			r.Route("/audit/companies/{companyId}", func(r chi.Router) {
				attachAuditRoutes(r, controllers.Audit)
			})
		})
	})
}
