package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atelier-erp/cashbox/internal/adapter/http/handler"
	"github.com/atelier-erp/cashbox/internal/adapter/http/middleware"
	"github.com/atelier-erp/cashbox/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	BranchHandler    *handler.BranchHandler
	CashboxHandler   *handler.CashboxHandler
	EntryHandler     *handler.EntryHandler
	AuditHandler     *handler.AuditHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	RequestLogger    *middleware.LoggingMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RequestLogger != nil {
		r.Use(cfg.RequestLogger.Wrap)
	}

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Branches
		r.Route("/branches", func(r chi.Router) {
			r.Post("/", cfg.BranchHandler.Create)
			r.Get("/", cfg.BranchHandler.List)
			r.Get("/{id}", cfg.BranchHandler.Get)
		})

		// Cashboxes
		r.Route("/cashboxes", func(r chi.Router) {
			r.Get("/{id}", cfg.CashboxHandler.Get)
			r.Get("/{id}/balance", cfg.CashboxHandler.GetBalance)
			r.Post("/{id}/postings", cfg.CashboxHandler.CreatePosting)
			r.Get("/{id}/entries", cfg.EntryHandler.ListByCashbox)
			r.Post("/{id}/recalculate", cfg.CashboxHandler.Recalculate)
			r.Post("/{id}/activate", cfg.CashboxHandler.Activate)
			r.Post("/{id}/deactivate", cfg.CashboxHandler.Deactivate)
		})

		// Entries
		r.Route("/entries", func(r chi.Router) {
			r.Get("/{id}", cfg.EntryHandler.Get)
			r.Post("/{id}/reverse", cfg.EntryHandler.Reverse)
		})

		// Audit logs
		r.Get("/audit-logs", cfg.AuditHandler.List)
	})

	return r
}
