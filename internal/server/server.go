// Package server wires the HTTP surface: webhook intake, health/info
// endpoints, and Prometheus metrics.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hemal8976/personal-webhook/internal/common/logger"
)

// NewRouter assembles the routing table with the standard middleware
// stack applied in order.
func NewRouter(handler *WebhookHandler, log logger.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(log))
	r.Use(middleware.Recoverer)

	r.Post("/webhook/meeting", handler.HandleMeetingWebhook)
	r.Get("/healthz", handler.HandleHealth)
	r.Get("/info", handler.HandleInfo)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
