package rest

import (
	"log/slog"

	"github.com/frahmantamala/savings/internal/category"
	"github.com/frahmantamala/savings/internal/dashboard"
	"github.com/frahmantamala/savings/internal/moneyflow"
	"github.com/frahmantamala/savings/internal/transport/middleware"
	"github.com/frahmantamala/savings/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups everything mounted by RegisterAllRoutes. Nil handlers
// leave their routes unmounted.
type Handlers struct {
	Health    *HealthHandler
	Category  *category.Handler
	MoneyFlow *moneyflow.Handler
	Dashboard *dashboard.Handler
	Spec      []byte
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, allowedOrigins []string, logger *slog.Logger) {
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	if h.Spec != nil {
		router.Get(swagger.SpecPath, swagger.SpecHandler(h.Spec))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		if h.Category != nil {
			r.Get("/categories", h.Category.GetCategories)
		}

		if h.MoneyFlow != nil {
			r.Route("/money-flows", func(mr chi.Router) {
				mr.Post("/", h.MoneyFlow.CreateMoneyFlow)       // POST /money-flows
				mr.Get("/", h.MoneyFlow.ListMoneyFlows)         // GET /money-flows
				mr.Get("/{id}", h.MoneyFlow.GetMoneyFlow)       // GET /money-flows/:id
				mr.Delete("/{id}", h.MoneyFlow.DeleteMoneyFlow) // DELETE /money-flows/:id
			})
		}

		if h.Dashboard != nil {
			r.Get("/dashboard", h.Dashboard.GetDashboard)
		}
	})
}
