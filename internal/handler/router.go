package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/taxpadi/taxpadi-engine-go/internal/infra/observability"
	"github.com/taxpadi/taxpadi-engine-go/internal/service"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Every computation route is stateless; the only mutators are the
// JWT-protected admin rule routes.
func NewRouter(
	taxSvc *service.TaxService,
	complianceSvc *service.ComplianceService,
	advisorSvc *service.AdvisorService,
	rulesSvc *service.RulesService,
	authSvc *service.AuthService,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(rulesSvc))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Tax computation
		r.Post("/tax/calculate", calculateHandler(taxSvc, logger))

		// Compliance checklist
		r.Post("/compliance/check", complianceHandler(complianceSvc, logger))

		// Optimization suggestions
		r.Post("/optimize", optimizeHandler(advisorSvc, logger))

		// Withholding tax
		r.Get("/wht/rates", whtRatesHandler(taxSvc, rulesSvc, logger))
		r.Post("/wht/calculate", whtCalculateHandler(taxSvc, logger))

		// Capital gains tax
		r.Post("/cgt/calculate", cgtCalculateHandler(taxSvc, logger))

		// Active rule snapshot metadata (public, read-only)
		r.Get("/rules", rulesMetaHandler(rulesSvc, logger))

		// Admin auth
		r.Post("/auth/login", authLoginHandler(authSvc, logger))

		// Rule overrides: the only mutator of the registry
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(authSvc, logger))
			r.Post("/admin/rules", rulesOverrideHandler(rulesSvc, logger))
			r.Post("/admin/rules/refresh", rulesRefreshHandler(rulesSvc, logger))
		})
	})

	return r
}

func healthzHandler(rulesSvc *service.RulesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":       "ok",
			"rulesVersion": rulesSvc.Meta().Version,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
