package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicops/workflow-agent/pkg/logging"
)

// NewRouter builds the HTTP router. Passing a nil registry disables the
// /metrics endpoint.
func NewRouter(h *Handler, logger *logging.Logger, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))

	r.Get("/health", h.HealthCheck)
	if reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/requests", h.ProcessRequest)
		r.Get("/audit", h.AuditLog)
		r.Get("/schemas", h.Schemas)
		r.Get("/patients", h.Patients)
		r.Get("/slots", h.Slots)
		r.Get("/appointments", h.Appointments)
	})

	return r
}
